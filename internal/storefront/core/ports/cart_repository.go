package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// CartRepository persists a whole cart into a named slot.
type CartRepository interface {
	// Save overwrites the slot with the full cart.
	Save(ctx context.Context, slot string, cart entity.Cart) error
	// Load returns the cart stored in slot, or an empty cart when the slot is
	// missing or its content cannot be parsed.
	Load(ctx context.Context, slot string) (entity.Cart, error)
}
