package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/view"
)

type nopAPI struct{}

func (nopAPI) Products(context.Context) ([]entity.Product, error)   { return nil, nil }
func (nopAPI) Categories(context.Context) ([]string, error)         { return nil, nil }
func (nopAPI) Product(context.Context, int) (*entity.Product, error) { return nil, nil }
func (nopAPI) ProductsByCategory(context.Context, string) ([]entity.Product, error) {
	return nil, nil
}

type slotRepo struct {
	carts   map[string]entity.Cart
	loadErr error
}

func (r *slotRepo) Save(_ context.Context, slot string, cart entity.Cart) error {
	r.carts[slot] = cart
	return nil
}

func (r *slotRepo) Load(_ context.Context, slot string) (entity.Cart, error) {
	if r.loadErr != nil {
		return entity.Cart{}, r.loadErr
	}
	return r.carts[slot], nil
}

func newManager(repo *slotRepo, idle time.Duration) *Manager {
	return NewManager(nopAPI{}, repo, Options{SlotPrefix: "cart", TrendingMaxAge: time.Minute, IdleTimeout: idle})
}

func TestGetOrCreateRehydratesPersistedCart(t *testing.T) {
	id := uuid.NewString()
	stored := entity.Cart{Items: []entity.LineItem{{
		Product:  entity.Product{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")},
		Quantity: 2,
	}}}
	repo := &slotRepo{carts: map[string]entity.Cart{"cart:" + id: stored}}
	m := newManager(repo, 0)

	s, created := m.GetOrCreate(context.Background(), id)

	require.True(t, created)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "cart:"+id, s.Slot)
	assert.Equal(t, 2, s.Cart.TotalItemCount())

	again, created := m.GetOrCreate(context.Background(), id)
	assert.False(t, created)
	assert.Same(t, s, again)
}

func TestGetOrCreateReplacesInvalidID(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, 0)

	s, created := m.GetOrCreate(context.Background(), "not-a-uuid")

	require.True(t, created)
	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestLoadFailureStartsEmpty(t *testing.T) {
	repo := &slotRepo{carts: map[string]entity.Cart{}, loadErr: errors.New("corrupt")}
	m := newManager(repo, 0)

	s, _ := m.GetOrCreate(context.Background(), "")

	assert.True(t, s.Cart.Cart().IsEmpty())
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, 10*time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, _ := m.GetOrCreate(context.Background(), "")
	now = now.Add(8 * time.Minute)
	active, _ := m.GetOrCreate(context.Background(), "")

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, ok := m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(active.ID)
	assert.True(t, ok)
}

func TestSweepDisabledWithoutTimeout(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, 0)
	_, _ = m.GetOrCreate(context.Background(), "")

	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSequencer(t *testing.T) {
	var seq Sequencer
	first := seq.Next()
	assert.True(t, seq.IsLatest(first))

	second := seq.Next()
	assert.False(t, seq.IsLatest(first))
	assert.True(t, seq.IsLatest(second))
}

func TestTakeViewDrainsToasts(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, 0)
	s, _ := m.GetOrCreate(context.Background(), "")

	s.AddToast(entity.Success("added"))
	s.Update(func(st *view.State) { st.CartOpen = true })

	st := s.TakeView()
	assert.Len(t, st.Toasts, 1)
	assert.True(t, st.CartOpen)
	assert.Equal(t, "all", st.ActiveCategory)

	assert.Empty(t, s.TakeView().Toasts)
}

func TestInitialLoadRetriesAfterFailure(t *testing.T) {
	m := newManager(&slotRepo{carts: map[string]entity.Cart{}}, 0)
	s, _ := m.GetOrCreate(context.Background(), "")

	require.True(t, s.BeginLoad())
	assert.False(t, s.BeginLoad(), "a load is already in flight")

	s.FinishLoad(false)
	require.True(t, s.BeginLoad(), "a failed load is retried")

	s.FinishLoad(true)
	assert.False(t, s.BeginLoad())
}
