package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

// NewRouter mounts the storefront routes on a chi router wrapped in otelhttp.
// Page routes run the initial catalog load; actions and /api/cart do not.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(middlewares.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Healthz)

	r.Group(func(r chi.Router) {
		r.Use(middlewares.Sessions(handler.sessions))

		r.Group(func(r chi.Router) {
			r.Use(middlewares.LoadCatalog(handler.ctrl.Load))
			r.Get("/", handler.Index)
			r.Get("/products/{id}", handler.ProductDetail)
		})
		r.Get("/api/cart", handler.Cart)

		r.Post("/categories", handler.SelectCategory)
		r.Post("/cart/items", handler.AddItem)
		r.Post("/cart/items/{id}/quantity", handler.ChangeQuantity)
		r.Post("/cart/items/{id}/remove", handler.RemoveItem)
		r.Post("/cart/open", handler.OpenCart)
		r.Post("/cart/close", handler.CloseCart)
		r.Post("/detail/close", handler.CloseDetail)
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
