// Package cartstore owns the in-memory cart of one session. Store is the only
// code that mutates cart state; every mutation is written through to the
// persisted slot before the call returns.
package cartstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

const (
	MsgAdded   = "Product added to cart!"
	MsgRemoved = "Product removed from cart"
)

// ProductLookup resolves product ids against the catalog snapshot.
type ProductLookup interface {
	Lookup(id int) (entity.Product, bool)
}

// Store is the cart of one session, written through to its slot.
type Store struct {
	lookup ProductLookup
	repo   ports.CartRepository
	slot   string

	mu   sync.Mutex
	cart entity.Cart
}

// New returns a Store seeded with initial, normally the cart loaded from slot.
func New(lookup ProductLookup, repo ports.CartRepository, slot string, initial entity.Cart) *Store {
	return &Store{
		lookup: lookup,
		repo:   repo,
		slot:   slot,
		cart:   initial.Clone(),
	}
}

// Add puts one unit of productID into the cart. An unknown id leaves the cart
// untouched and returns entity.ErrProductNotFound.
func (s *Store) Add(ctx context.Context, productID int) (entity.Notification, error) {
	product, ok := s.lookup.Lookup(productID)
	if !ok {
		return entity.Notification{}, fmt.Errorf("add product %d: %w", productID, entity.ErrProductNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.cart.Find(productID); i >= 0 {
		s.cart.Items[i].Quantity++
	} else {
		s.cart.Items = append(s.cart.Items, entity.LineItem{Product: product, Quantity: 1})
	}

	if err := s.persist(ctx); err != nil {
		return entity.Notification{}, err
	}
	return entity.Success(MsgAdded), nil
}

// Remove drops the line item for productID. Removing an absent id is not an
// error and still persists the cart.
func (s *Store) Remove(ctx context.Context, productID int) (entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

// UpdateQuantity adds delta to the quantity of an existing line item. A
// resulting quantity of zero or less behaves exactly like Remove. Successful
// in-place updates carry no notification.
func (s *Store) UpdateQuantity(ctx context.Context, productID, delta int) (*entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.Find(productID)
	if i < 0 {
		return nil, fmt.Errorf("update quantity of %d: %w", productID, entity.ErrLineItemNotFound)
	}

	if s.cart.Items[i].Quantity+delta <= 0 {
		n, err := s.removeLocked(ctx, productID)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}

	s.cart.Items[i].Quantity += delta
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// TotalItemCount returns the sum of quantities in the cart.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItemCount()
}

// TotalPrice returns the sum of line subtotals.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

func (s *Store) removeLocked(ctx context.Context, productID int) (entity.Notification, error) {
	kept := s.cart.Items[:0]
	for _, it := range s.cart.Items {
		if it.ID != productID {
			kept = append(kept, it)
		}
	}
	s.cart.Items = kept

	if err := s.persist(ctx); err != nil {
		return entity.Notification{}, err
	}
	return entity.Success(MsgRemoved), nil
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.slot, s.cart.Clone()); err != nil {
		slog.ErrorContext(ctx, "cart persistence failed", "slot", s.slot, "error", err)
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
