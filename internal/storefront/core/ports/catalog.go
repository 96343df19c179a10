package ports

import (
	"context"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

// CatalogAPI is the read-only remote product catalog.
type CatalogAPI interface {
	Products(ctx context.Context) ([]entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]entity.Product, error)
	Product(ctx context.Context, id int) (*entity.Product, error)
}
