package entity

import "github.com/shopspring/decimal"

// LineItem is one cart entry. The product fields are flattened into the
// serialized form next to the quantity.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered sequence of line items, unique by product id.
// Insertion order is the display order.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Find returns the index of the line item for productID, or -1.
func (c Cart) Find(productID int) int {
	for i, it := range c.Items {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

// TotalItemCount is the sum of quantities, not the number of line items.
func (c Cart) TotalItemCount() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of line subtotals.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
