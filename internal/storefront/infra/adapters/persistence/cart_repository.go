package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Ensure CartRepository implements the port at compile time.
var _ ports.CartRepository = (*CartRepository)(nil)

// CartRepository stores a cart as a JSON array of line items in one slot.
type CartRepository struct {
	store kvstore.Store
}

// NewCartRepository returns a repository writing to store.
func NewCartRepository(store kvstore.Store) *CartRepository {
	return &CartRepository{store: store}
}

// Save overwrites the slot with the ordered line items. An empty cart deletes
// the slot, which Load reads back as an empty cart.
func (r *CartRepository) Save(ctx context.Context, slot string, cart entity.Cart) error {
	if cart.IsEmpty() {
		if err := r.store.Delete(ctx, slot); err != nil {
			return fmt.Errorf("clear cart slot %q: %w", slot, err)
		}
		return nil
	}

	raw, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.store.Set(ctx, slot, raw); err != nil {
		return fmt.Errorf("save cart slot %q: %w", slot, err)
	}
	return nil
}

// Load returns the cart stored in slot. A missing or unparseable slot yields
// an empty cart. Line items with a non-positive quantity are dropped and
// repeated product ids are merged into the first occurrence.
func (r *CartRepository) Load(ctx context.Context, slot string) (entity.Cart, error) {
	raw, err := r.store.Get(ctx, slot)
	if errors.Is(err, kvstore.ErrNotFound) {
		return entity.Cart{}, nil
	}
	if err != nil {
		return entity.Cart{}, fmt.Errorf("load cart slot %q: %w", slot, err)
	}

	var items []entity.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.WarnContext(ctx, "discarding unparseable cart slot", "slot", slot, "error", err)
		return entity.Cart{}, nil
	}

	return normalize(items), nil
}

func normalize(items []entity.LineItem) entity.Cart {
	var cart entity.Cart
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if i := cart.Find(it.ID); i >= 0 {
			cart.Items[i].Quantity += it.Quantity
			continue
		}
		cart.Items = append(cart.Items, it)
	}
	return cart
}
