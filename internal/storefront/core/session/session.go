// Package session keeps the per-visitor state of the storefront: one catalog
// snapshot, one cart and one view state per browser session.
package session

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/cartstore"
	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/view"
)

// Session is the state of one browser session.
type Session struct {
	ID      string
	Slot    string
	Catalog *catalog.Service
	Cart    *cartstore.Store

	// Listing sequences category selections, Detail sequences detail
	// requests.
	Listing Sequencer
	Detail  Sequencer

	load     atomic.Int32
	lastSeen atomic.Int64

	mu    sync.Mutex
	state view.State
}

func newSession(id, slot string, svc *catalog.Service, cart *cartstore.Store, now time.Time) *Session {
	s := &Session{
		ID:      id,
		Slot:    slot,
		Catalog: svc,
		Cart:    cart,
		state:   view.State{ActiveCategory: catalog.AllCategories},
	}
	s.Touch(now)
	return s
}

const (
	loadPending int32 = iota
	loadRunning
	loadDone
)

// BeginLoad reports true for the caller that must run the initial load. It
// returns false while a load is in flight and after one has succeeded.
func (s *Session) BeginLoad() bool {
	return s.load.CompareAndSwap(loadPending, loadRunning)
}

// FinishLoad records the outcome of the load claimed by BeginLoad. After a
// failure the next BeginLoad claims a new load.
func (s *Session) FinishLoad(ok bool) {
	if ok {
		s.load.Store(loadDone)
		return
	}
	s.load.Store(loadPending)
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the last Touch.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Update applies fn to the view state under the session lock. fn must not
// block.
func (s *Session) Update(fn func(st *view.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

func (s *Session) AddToast(n entity.Notification) {
	s.Update(func(st *view.State) {
		st.Toasts = append(st.Toasts, n)
	})
}

// TakeView returns the view state and clears pending toasts, so that every
// toast is shown by exactly one render.
func (s *Session) TakeView() view.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := copyState(s.state)
	s.state.Toasts = nil
	return st
}

func copyState(st view.State) view.State {
	out := st
	out.Categories = slices.Clone(st.Categories)
	out.Listing = slices.Clone(st.Listing)
	out.Trending = slices.Clone(st.Trending)
	out.Toasts = slices.Clone(st.Toasts)
	if st.Detail != nil {
		d := *st.Detail
		out.Detail = &d
	}
	return out
}
