package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/core/cartstore"
	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Options configures the sessions created by a Manager.
type Options struct {
	// SlotPrefix namespaces persisted carts; the slot of a session is
	// "<SlotPrefix>:<session id>".
	SlotPrefix     string
	TrendingMaxAge time.Duration
	// IdleTimeout evicts sessions not seen for this long. Zero disables
	// eviction.
	IdleTimeout time.Duration
}

// Manager owns the live sessions and evicts idle ones.
type Manager struct {
	api  ports.CatalogAPI
	repo ports.CartRepository
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns a Manager whose sessions fetch from api and persist
// their carts through repo.
func NewManager(api ports.CatalogAPI, repo ports.CartRepository, opts Options) *Manager {
	return &Manager{
		api:      api,
		repo:     repo,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns a live session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.Touch(m.now())
	}
	return s, ok
}

// GetOrCreate returns the live session for id. Unknown ids that are valid
// uuids are recreated under the same id, which rehydrates the cart persisted
// for that id; anything else gets a fresh id. created reports whether a new
// session was built.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (s *Session, created bool) {
	if s, ok := m.Get(id); ok {
		return s, false
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	fresh := m.build(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, false
	}
	m.sessions[id] = fresh
	slog.InfoContext(ctx, "session created", "session_id", id, "cart_items", fresh.Cart.TotalItemCount())
	return fresh, true
}

func (m *Manager) build(ctx context.Context, id string) *Session {
	slot := m.opts.SlotPrefix + ":" + id
	svc := catalog.NewService(m.api, m.opts.TrendingMaxAge)

	initial, err := m.repo.Load(ctx, slot)
	if err != nil {
		slog.WarnContext(ctx, "could not load persisted cart, starting empty", "slot", slot, "error", err)
		initial = entity.Cart{}
	}

	return newSession(id, slot, svc, cartstore.New(svc, m.repo, slot, initial), m.now())
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than IdleTimeout and returns how many
// were dropped. Their carts stay in the persisted slot.
func (m *Manager) Sweep() int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.opts.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(m.opts.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.InfoContext(ctx, "idle sessions evicted", "count", n, "remaining", m.Len())
			}
		}
	}
}
