// Package view projects catalog and cart data into display structures. The
// functions here never mutate their inputs or any store.
package view

import (
	"slices"

	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

type CategoryControl struct {
	Value  string
	Label  string
	Active bool
}

// ProductCard is a product as shown in a listing or in trending.
type ProductCard struct {
	ID            int
	Title         string
	FullTitle     string
	Image         string
	CategoryLabel string
	Stars         StarRating
	RatingCount   int
	Price         string
}

type ProductDetail struct {
	ProductCard
	Description string
}

// Listing holds either cards or the empty placeholder, never both.
type Listing struct {
	Cards []ProductCard
	Empty bool
}

type CartRow struct {
	ID        int
	Title     string
	Image     string
	Price     string
	Quantity  int
	LineTotal string
}

// CartPanel holds either rows or the empty-cart placeholder, never both.
type CartPanel struct {
	Rows      []CartRow
	Empty     bool
	ItemCount int
	Total     string
	Open      bool
}

// Page is everything a single render of the storefront shows.
type Page struct {
	Categories []CategoryControl
	Listing    Listing
	Trending   []ProductCard
	Cart       CartPanel
	Detail     *ProductDetail
	Toasts     []entity.Notification
}

// State is the per-session input of a render pass.
type State struct {
	Categories     []string
	ActiveCategory string
	Listing        []entity.Product
	Trending       []entity.Product
	Detail         *entity.Product
	CartOpen       bool
	Toasts         []entity.Notification
}

// Render builds the whole page in one pass.
func Render(st State, cart entity.Cart) Page {
	p := Page{
		Categories: CategorySelector(st.Categories, st.ActiveCategory),
		Listing:    ProductListing(st.Listing),
		Trending:   cards(st.Trending),
		Cart:       NewCartPanel(cart, st.CartOpen),
		Toasts:     slices.Clone(st.Toasts),
	}
	if st.Detail != nil {
		d := NewProductDetail(*st.Detail)
		p.Detail = &d
	}
	return p
}

// CategorySelector renders the "all" control followed by one control per
// category. Exactly one control is active; an unknown active value falls back
// to "all".
func CategorySelector(categories []string, active string) []CategoryControl {
	if active == "" || (active != catalog.AllCategories && !slices.Contains(categories, active)) {
		active = catalog.AllCategories
	}

	controls := make([]CategoryControl, 0, len(categories)+1)
	controls = append(controls, CategoryControl{
		Value:  catalog.AllCategories,
		Label:  "All",
		Active: active == catalog.AllCategories,
	})
	for _, c := range categories {
		if c == catalog.AllCategories {
			continue
		}
		controls = append(controls, CategoryControl{
			Value:  c,
			Label:  FormatCategoryName(c),
			Active: c == active,
		})
	}
	return controls
}

func ProductListing(products []entity.Product) Listing {
	if len(products) == 0 {
		return Listing{Empty: true}
	}
	return Listing{Cards: cards(products)}
}

func NewProductCard(p entity.Product) ProductCard {
	return ProductCard{
		ID:            p.ID,
		Title:         TruncateTitle(p.Title),
		FullTitle:     p.Title,
		Image:         p.Image,
		CategoryLabel: FormatCategoryName(p.Category),
		Stars:         Stars(p.Rating.Rate),
		RatingCount:   p.Rating.Count,
		Price:         FormatPrice(p.Price),
	}
}

// NewProductDetail shows the full, untruncated title.
func NewProductDetail(p entity.Product) ProductDetail {
	card := NewProductCard(p)
	card.Title = p.Title
	return ProductDetail{ProductCard: card, Description: p.Description}
}

func NewCartPanel(cart entity.Cart, open bool) CartPanel {
	panel := CartPanel{
		Empty:     cart.IsEmpty(),
		ItemCount: cart.TotalItemCount(),
		Total:     FormatPrice(cart.TotalPrice()),
		Open:      open,
	}
	for _, it := range cart.Items {
		panel.Rows = append(panel.Rows, CartRow{
			ID:        it.ID,
			Title:     it.Title,
			Image:     it.Image,
			Price:     FormatPrice(it.Price),
			Quantity:  it.Quantity,
			LineTotal: FormatPrice(it.Subtotal()),
		})
	}
	return panel
}

func cards(products []entity.Product) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductCard(p))
	}
	return out
}
