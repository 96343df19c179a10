package httpx

import "github.com/jcmexdev/storefront/internal/storefront/core/view"

type CartResponse struct {
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
	Items     []CartItemResponse `json:"items"`
}

type CartItemResponse struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCartPanelToResponse(p view.CartPanel) CartResponse {
	items := make([]CartItemResponse, 0, len(p.Rows))
	for _, row := range p.Rows {
		items = append(items, CartItemResponse{
			ProductID: row.ID,
			Title:     row.Title,
			Image:     row.Image,
			Price:     row.Price,
			Quantity:  row.Quantity,
			LineTotal: row.LineTotal,
		})
	}
	return CartResponse{ItemCount: p.ItemCount, Total: p.Total, Items: items}
}
