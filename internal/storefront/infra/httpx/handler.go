package httpx

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/storefront/core/controller"
	"github.com/jcmexdev/storefront/internal/storefront/core/session"
	"github.com/jcmexdev/storefront/internal/storefront/core/view"
	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pinger reports whether the cart slot store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler translates storefront requests into controller events. Every POST
// answers 303 to "/" so a reload never repeats an action.
type Handler struct {
	ctrl     *controller.Controller
	sessions *session.Manager
	store    Pinger
	pages    *template.Template
}

// NewHandler parses the page templates and returns a Handler.
func NewHandler(ctrl *controller.Controller, sessions *session.Manager, store Pinger) *Handler {
	pages := template.Must(template.New("").Funcs(template.FuncMap{
		"starIcon": starIcon,
	}).ParseFS(templateFS, "templates/*.html"))

	return &Handler{ctrl: ctrl, sessions: sessions, store: store, pages: pages}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r)
}

// ProductDetail opens the detail modal for {id} and renders the page.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, chi.URLParam(r, "id"), "invalid_product_id")
	if !ok {
		return
	}
	h.dispatch(r, controller.ProductDetailRequested{ProductID: id})
	h.renderPage(w, r)
}

func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	category := r.FormValue("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "category_required", "")
		return
	}
	h.dispatch(r, controller.CategorySelected{Category: category})
	redirectHome(w, r)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r.FormValue("product_id"), "invalid_product_id")
	if !ok {
		return
	}
	h.dispatch(r, controller.AddToCart{ProductID: id})
	redirectHome(w, r)
}

func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, chi.URLParam(r, "id"), "invalid_product_id")
	if !ok {
		return
	}
	delta, ok := intParam(w, r.FormValue("delta"), "invalid_delta")
	if !ok {
		return
	}
	h.dispatch(r, controller.QuantityChanged{ProductID: id, Delta: delta})
	redirectHome(w, r)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, chi.URLParam(r, "id"), "invalid_product_id")
	if !ok {
		return
	}
	h.dispatch(r, controller.RemoveFromCart{ProductID: id})
	redirectHome(w, r)
}

func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, controller.CartToggled{Open: true})
	redirectHome(w, r)
}

func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, controller.CartToggled{Open: false})
	redirectHome(w, r)
}

func (h *Handler) CloseDetail(w http.ResponseWriter, r *http.Request) {
	h.dispatch(r, controller.DetailClosed{})
	redirectHome(w, r)
}

// Cart returns the cart panel of the session as JSON.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	s := middlewares.SessionFrom(r.Context())
	writeJSON(w, http.StatusOK, mapCartPanelToResponse(view.NewCartPanel(s.Cart.Cart(), false)))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "cart store unreachable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "cart_store_unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Sessions: h.sessions.Len()})
}

func (h *Handler) dispatch(r *http.Request, ev controller.Event) {
	h.ctrl.Dispatch(r.Context(), middlewares.SessionFrom(r.Context()), ev)
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request) {
	page := h.ctrl.Render(middlewares.SessionFrom(r.Context()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.pages.ExecuteTemplate(w, "index.html", page); err != nil {
		slog.ErrorContext(r.Context(), "render page failed", "error", err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func intParam(w http.ResponseWriter, raw, code string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, code, "expected an integer, got "+strconv.Quote(raw))
		return 0, false
	}
	return n, true
}

func starIcon(kind view.StarKind) string {
	switch kind {
	case view.StarFull:
		return "fas fa-star"
	case view.StarHalf:
		return "fas fa-star-half-alt"
	default:
		return "far fa-star"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}
