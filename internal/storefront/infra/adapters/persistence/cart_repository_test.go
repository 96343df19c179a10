package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/kvstore"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type brokenStore struct {
	*kvstore.Memory
}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func lineItem(id int, price string, qty int) entity.LineItem {
	return entity.LineItem{
		Product: entity.Product{
			ID:       id,
			Title:    "item",
			Price:    decimal.RequireFromString(price),
			Category: "electronics",
			Rating:   entity.Rating{Rate: 4.2, Count: 7},
		},
		Quantity: qty,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := NewCartRepository(kvstore.NewMemory())
	ctx := context.Background()
	cart := entity.Cart{Items: []entity.LineItem{lineItem(3, "55.99", 1), lineItem(1, "109.95", 2)}}

	require.NoError(t, repo.Save(ctx, "cart:s1", cart))
	got, err := repo.Load(ctx, "cart:s1")
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, 3, got.Items[0].ID)
	assert.Equal(t, 2, got.Items[1].Quantity)
	assert.Equal(t, "275.89", got.TotalPrice().StringFixed(2))
	assert.Equal(t, 4.2, got.Items[0].Rating.Rate)
}

func TestSaveWritesFlatArray(t *testing.T) {
	store := kvstore.NewMemory()
	repo := NewCartRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "cart:s1", entity.Cart{Items: []entity.LineItem{lineItem(1, "9.5", 2)}}))
	raw, err := store.Get(ctx, "cart:s1")
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id": 1, "title": "item", "price": "9.5", "description": "",
		"category": "electronics", "image": "",
		"rating": {"rate": 4.2, "count": 7}, "quantity": 2
	}]`, string(raw))
}

func TestSavingEmptyCartDeletesSlot(t *testing.T) {
	store := kvstore.NewMemory()
	repo := NewCartRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "cart:s1", entity.Cart{Items: []entity.LineItem{lineItem(4, "15.99", 1)}}))
	require.NoError(t, repo.Save(ctx, "cart:s1", entity.Cart{}))

	_, err := store.Get(ctx, "cart:s1")
	require.ErrorIs(t, err, kvstore.ErrNotFound)

	got, err := repo.Load(ctx, "cart:s1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	require.NoError(t, repo.Save(ctx, "cart:never-written", entity.Cart{}))
}

func TestSaveDeleteErrorIsReturned(t *testing.T) {
	repo := NewCartRepository(&brokenStore{Memory: kvstore.NewMemory()})

	err := repo.Save(context.Background(), "cart:s1", entity.Cart{})

	require.Error(t, err)
}

func TestLoadMissingSlotIsEmpty(t *testing.T) {
	repo := NewCartRepository(kvstore.NewMemory())

	got, err := repo.Load(context.Background(), "cart:nobody")

	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestLoadUnparseableSlotIsEmpty(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), "cart:bad", []byte("{not json")))

	got, err := NewCartRepository(store).Load(context.Background(), "cart:bad")

	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
}

func TestLoadAcceptsNumericPrices(t *testing.T) {
	store := kvstore.NewMemory()
	raw := `[{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","rating":{"rate":3.9,"count":120},"quantity":1}]`
	require.NoError(t, store.Set(context.Background(), "cart:num", []byte(raw)))

	got, err := NewCartRepository(store).Load(context.Background(), "cart:num")

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "109.95", got.Items[0].Price.StringFixed(2))
}

func TestLoadRestoresInvariants(t *testing.T) {
	store := kvstore.NewMemory()
	raw := `[
		{"id":1,"price":"1","quantity":2},
		{"id":2,"price":"1","quantity":0},
		{"id":1,"price":"1","quantity":3},
		{"id":3,"price":"1","quantity":-1}
	]`
	require.NoError(t, store.Set(context.Background(), "cart:dirty", []byte(raw)))

	got, err := NewCartRepository(store).Load(context.Background(), "cart:dirty")

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Items[0].ID)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestLoadTransportErrorIsReturned(t *testing.T) {
	repo := NewCartRepository(&brokenStore{Memory: kvstore.NewMemory()})

	_, err := repo.Load(context.Background(), "cart:s1")

	require.Error(t, err)
}
