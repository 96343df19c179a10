package session

import "sync/atomic"

// Sequencer hands out increasing request ids so that a response can be
// checked against the most recent request of the same kind. Responses whose
// id is no longer the latest are stale and must be discarded.
type Sequencer struct {
	last atomic.Uint64
}

func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

func (s *Sequencer) IsLatest(id uint64) bool {
	return s.last.Load() == id
}
