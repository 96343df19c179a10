// Package controller turns user interactions into catalog fetches and cart
// mutations on a session, and produces the page for the next render.
package controller

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/session"
	"github.com/jcmexdev/storefront/internal/storefront/core/view"
)

const (
	MsgLoadProductsFailed   = "Failed to load products"
	MsgLoadCategoriesFailed = "Failed to load categories"
	MsgLoadDetailFailed     = "Failed to load product details"
	MsgProductUnavailable   = "Product is no longer available"
	MsgSaveCartFailed       = "Failed to save cart"
)

// Controller applies events to sessions. It holds no state of its own.
type Controller struct{}

// New returns a Controller.
func New() *Controller {
	return &Controller{}
}

// Load runs Start for a session that has not completed its initial load yet.
// It runs detached from ctx cancellation, and a failed load is retried by the
// next call.
func (c *Controller) Load(ctx context.Context, s *session.Session) {
	if !s.BeginLoad() {
		return
	}
	err := c.Start(context.WithoutCancel(ctx), s)
	if err != nil {
		slog.WarnContext(ctx, "initial load incomplete, will retry", "session_id", s.ID, "error", err)
	}
	s.FinishLoad(err == nil)
}

// Start performs the initial load of a session: categories on one side, the
// full catalog followed by trending on the other. Failures become toasts and
// are returned joined; a trending failure is only logged.
func (c *Controller) Start(ctx context.Context, s *session.Session) error {
	var (
		g                          errgroup.Group
		categoriesErr, productsErr error
	)

	g.Go(func() error {
		categories, err := s.Catalog.FetchCategories(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "initial categories load failed", "session_id", s.ID, "error", err)
			s.AddToast(entity.Failure(MsgLoadCategoriesFailed))
			categoriesErr = err
			return nil
		}
		s.Update(func(st *view.State) { st.Categories = categories })
		return nil
	})

	g.Go(func() error {
		seq := s.Listing.Next()
		products, err := s.Catalog.FetchAllProducts(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "initial products load failed", "session_id", s.ID, "error", err)
			s.AddToast(entity.Failure(MsgLoadProductsFailed))
			productsErr = err
		} else if s.Listing.IsLatest(seq) {
			s.Update(func(st *view.State) {
				st.ActiveCategory = catalog.AllCategories
				st.Listing = products
			})
		}

		trending, err := s.Catalog.FetchTrending(ctx)
		if err != nil {
			slog.WarnContext(ctx, "trending load failed", "session_id", s.ID, "error", err)
			return nil
		}
		s.Update(func(st *view.State) { st.Trending = trending })
		return nil
	})

	_ = g.Wait()
	return errors.Join(categoriesErr, productsErr)
}

// Dispatch applies one event to the session. It never returns an error;
// failures are reported to the user as toasts.
func (c *Controller) Dispatch(ctx context.Context, s *session.Session, ev Event) {
	switch e := ev.(type) {
	case CategorySelected:
		c.selectCategory(ctx, s, e.Category)
	case AddToCart:
		c.addToCart(ctx, s, e.ProductID)
	case RemoveFromCart:
		n, err := s.Cart.Remove(ctx, e.ProductID)
		c.cartFeedback(ctx, s, n, err)
	case QuantityChanged:
		c.changeQuantity(ctx, s, e.ProductID, e.Delta)
	case ProductDetailRequested:
		c.openDetail(ctx, s, e.ProductID)
	case DetailClosed:
		s.Detail.Next()
		s.Update(func(st *view.State) { st.Detail = nil })
	case CartToggled:
		s.Update(func(st *view.State) { st.CartOpen = e.Open })
	default:
		slog.WarnContext(ctx, "unknown event", "session_id", s.ID, "event", ev)
	}
}

// Render builds the page for the session and consumes its pending toasts.
func (c *Controller) Render(s *session.Session) view.Page {
	return view.Render(s.TakeView(), s.Cart.Cart())
}

func (c *Controller) selectCategory(ctx context.Context, s *session.Session, category string) {
	seq := s.Listing.Next()
	s.Update(func(st *view.State) { st.ActiveCategory = category })

	products, err := s.Catalog.FetchByCategory(ctx, category)
	if !s.Listing.IsLatest(seq) {
		slog.DebugContext(ctx, "discarding stale listing", "session_id", s.ID, "category", category)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "category load failed", "session_id", s.ID, "category", category, "error", err)
		s.AddToast(entity.Failure(MsgLoadProductsFailed))
		return
	}
	s.Update(func(st *view.State) { st.Listing = products })
}

func (c *Controller) openDetail(ctx context.Context, s *session.Session, id int) {
	seq := s.Detail.Next()

	product, err := s.Catalog.FetchProductDetail(ctx, id)
	if !s.Detail.IsLatest(seq) {
		slog.DebugContext(ctx, "discarding stale detail", "session_id", s.ID, "product_id", id)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "product detail load failed", "session_id", s.ID, "product_id", id, "error", err)
		s.AddToast(entity.Failure(MsgLoadDetailFailed))
		s.Update(func(st *view.State) { st.Detail = nil })
		return
	}
	s.Update(func(st *view.State) { st.Detail = product })
}

func (c *Controller) addToCart(ctx context.Context, s *session.Session, id int) {
	n, err := s.Cart.Add(ctx, id)
	if errors.Is(err, entity.ErrProductNotFound) {
		slog.WarnContext(ctx, "add to cart rejected", "session_id", s.ID, "product_id", id, "error", err)
		s.AddToast(entity.Failure(MsgProductUnavailable))
		return
	}
	c.cartFeedback(ctx, s, n, err)
	if err == nil {
		s.Update(func(st *view.State) { st.CartOpen = true })
	}
}

func (c *Controller) changeQuantity(ctx context.Context, s *session.Session, id, delta int) {
	n, err := s.Cart.UpdateQuantity(ctx, id, delta)
	if errors.Is(err, entity.ErrLineItemNotFound) {
		slog.DebugContext(ctx, "quantity change ignored", "session_id", s.ID, "product_id", id)
		return
	}
	if err != nil || n != nil {
		var note entity.Notification
		if n != nil {
			note = *n
		}
		c.cartFeedback(ctx, s, note, err)
	}
}

func (c *Controller) cartFeedback(ctx context.Context, s *session.Session, n entity.Notification, err error) {
	if err != nil {
		slog.ErrorContext(ctx, "cart update not saved", "session_id", s.ID, "error", err)
		s.AddToast(entity.Failure(MsgSaveCartFailed))
		return
	}
	s.AddToast(n)
}
