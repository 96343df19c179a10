// Package catalog holds the session-scoped view of the remote catalog: the
// last full product list (the snapshot) and the fetch operations built on it.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// AllCategories is the client-side sentinel meaning "no category filter".
// It is never sent to the remote API.
const AllCategories = "all"

// TrendingSize is the number of products in the trending view.
const TrendingSize = 3

// Service fetches from the catalog API and keeps the snapshot of one session.
type Service struct {
	api    ports.CatalogAPI
	maxAge time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	snapshot  []entity.Product
	fetchedAt time.Time
}

// NewService returns a Service with an empty snapshot. maxAge bounds how old
// the snapshot may be before FetchTrending fetches the catalog again; zero
// always re-fetches.
func NewService(api ports.CatalogAPI, maxAge time.Duration) *Service {
	return &Service{api: api, maxAge: maxAge, now: time.Now}
}

// FetchAllProducts retrieves the full product list and stores it as the
// snapshot. On failure the previous snapshot is left in place.
func (s *Service) FetchAllProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.api.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch all products: %w", err)
	}

	s.mu.Lock()
	s.snapshot = slices.Clone(products)
	s.fetchedAt = s.now()
	s.mu.Unlock()

	slog.DebugContext(ctx, "catalog snapshot refreshed", "products", len(products))
	return products, nil
}

// FetchCategories returns the category names offered by the catalog API.
func (s *Service) FetchCategories(ctx context.Context) ([]string, error) {
	categories, err := s.api.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return categories, nil
}

// FetchByCategory returns the products of one category. The "all" sentinel
// resolves to the snapshot without a remote call.
func (s *Service) FetchByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	if category == AllCategories {
		return s.Snapshot(), nil
	}

	products, err := s.api.ProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch category %q: %w", category, err)
	}
	return products, nil
}

// FetchProductDetail retrieves one product from the API, bypassing the snapshot.
func (s *Service) FetchProductDetail(ctx context.Context, id int) (*entity.Product, error) {
	product, err := s.api.Product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return product, nil
}

// FetchTrending returns the top rated products, ties kept in catalog order.
// A fresh, non-empty snapshot is reused; otherwise the full list is fetched
// again, which also refreshes the snapshot.
func (s *Service) FetchTrending(ctx context.Context) ([]entity.Product, error) {
	products, ok := s.freshSnapshot()
	if !ok {
		var err error
		if products, err = s.FetchAllProducts(ctx); err != nil {
			return nil, fmt.Errorf("fetch trending: %w", err)
		}
	}
	return TopRated(products, TrendingSize), nil
}

// Lookup resolves a product id against the snapshot.
func (s *Service) Lookup(id int) (entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.snapshot {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Snapshot returns a copy of the last full product list.
func (s *Service) Snapshot() []entity.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot)
}

func (s *Service) freshSnapshot() ([]entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshot) == 0 || s.now().Sub(s.fetchedAt) >= s.maxAge {
		return nil, false
	}
	return slices.Clone(s.snapshot), true
}

// TopRated returns up to n products ordered by descending rating. The sort is
// stable, so equal ratings keep their original order. The input is not
// modified.
func TopRated(products []entity.Product, n int) []entity.Product {
	sorted := slices.Clone(products)
	slices.SortStableFunc(sorted, func(a, b entity.Product) int {
		switch {
		case a.Rating.Rate > b.Rating.Rate:
			return -1
		case a.Rating.Rate < b.Rating.Rate:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
