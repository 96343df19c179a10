package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "cart:missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "cart:a", []byte(`[{"id":1}]`)))
	got, err := s.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Set(ctx, "cart:a", []byte(`[]`)))
	got, err = s.Get(ctx, "cart:a")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "set overwrites")

	require.NoError(t, s.Delete(ctx, "cart:a"))
	_, err = s.Get(ctx, "cart:a")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "cart:a"), "deleting a missing key is not an error")
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")

	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr(), "storefront")
	t.Cleanup(func() { _ = r.Close() })

	exerciseStore(t, r)
}

func TestRedisNamespacesKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(mr.Addr(), "storefront")
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Set(context.Background(), "cart:abc", []byte("[]")))

	assert.Equal(t, "storefront:cart:abc", r.GenerateKey("cart:abc"))
	v, err := mr.Get("storefront:cart:abc")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSQLite(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "slots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "cart:keep", []byte(`[{"id":3}]`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, "cart:keep")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":3}]`, string(got))
}
