package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront/internal/pkg/ctxkeys"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Ensure HTTPClient implements the port at compile time.
var _ ports.CatalogAPI = (*HTTPClient)(nil)

// HTTPClient talks to a Fake Store compatible catalog API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client rooted at baseURL. Every request is bounded
// by timeout and traced as a client span.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *HTTPClient) Products(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *HTTPClient) ProductsByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	var products []entity.Product
	if err := c.get(ctx, "/products/category/"+url.PathEscape(category), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one record. The remote API answers an unknown id with an
// empty 200 body, which surfaces as a DecodeError.
func (c *HTTPClient) Product(ctx context.Context, id int) (*entity.Product, error) {
	var product entity.Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	op := "GET " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &entity.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if id := ctxkeys.RequestID(ctx); id != "" {
		req.Header.Set(ctxkeys.HeaderXRequestID, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "catalog request failed", "op", op, "error", err)
		return &entity.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "catalog response", "op", op, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &entity.NetworkError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &entity.DecodeError{Op: op, Err: err}
	}
	return nil
}
