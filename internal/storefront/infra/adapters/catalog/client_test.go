package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/ctxkeys"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

const productsJSON = `[
	{"id":1,"title":"Fjallraven Backpack","price":109.95,"description":"bag","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":5,"title":"Dragon Bracelet","price":695,"description":"gold","category":"jewelery","image":"https://img/5.jpg","rating":{"rate":4.6,"count":400}}
]`

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(productsJSON))
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["electronics","jewelery","men's clothing"]`))
	})
	mux.HandleFunc("GET /products/category/{category}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("category") != "men's clothing" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[` + `{"id":1,"title":"Fjallraven Backpack","price":109.95,"category":"men's clothing","rating":{"rate":3.9,"count":120}}` + `]`))
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "1" {
			_, _ = w.Write([]byte(`{"id":1,"title":"Fjallraven Backpack","price":109.95,"rating":{"rate":3.9,"count":120}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestProducts(t *testing.T) {
	c := NewHTTPClient(newStub(t).URL+"/", time.Second)

	products, err := c.Products(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "109.95", products[0].Price.StringFixed(2))
	assert.Equal(t, 400, products[1].Rating.Count)
	assert.Equal(t, "jewelery", products[1].Category)
}

func TestCategories(t *testing.T) {
	c := NewHTTPClient(newStub(t).URL, time.Second)

	categories, err := c.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery", "men's clothing"}, categories)
}

func TestProductsByCategoryEscapesPath(t *testing.T) {
	c := NewHTTPClient(newStub(t).URL, time.Second)

	products, err := c.ProductsByCategory(context.Background(), "men's clothing")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
}

func TestProductByID(t *testing.T) {
	c := NewHTTPClient(newStub(t).URL, time.Second)

	p, err := c.Product(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fjallraven Backpack", p.Title)

	_, err = c.Product(context.Background(), 999)
	var decErr *entity.DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, "GET /products/999", decErr.Op)
}

func TestNonOKStatusIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPClient(srv.URL, time.Second).Products(context.Background())

	var netErr *entity.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusServiceUnavailable, netErr.StatusCode)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, time.Second).Categories(context.Background())

	var netErr *entity.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.StatusCode)
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	_, err := NewHTTPClient(srv.URL, 50*time.Millisecond).Products(context.Background())

	var netErr *entity.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestRequestIDIsForwarded(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-Id")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	ctx := ctxkeys.WithRequestID(context.Background(), "host/abc-000001")
	_, err := NewHTTPClient(srv.URL, time.Second).Categories(ctx)

	require.NoError(t, err)
	assert.Equal(t, "host/abc-000001", got)
}
