package controller

// Event is a user interaction delivered to Dispatch.
type Event interface {
	event()
}

type CategorySelected struct {
	Category string
}

type AddToCart struct {
	ProductID int
}

type RemoveFromCart struct {
	ProductID int
}

type QuantityChanged struct {
	ProductID int
	Delta     int
}

type ProductDetailRequested struct {
	ProductID int
}

type DetailClosed struct{}

type CartToggled struct {
	Open bool
}

func (CategorySelected) event()       {}
func (AddToCart) event()              {}
func (RemoveFromCart) event()         {}
func (QuantityChanged) event()        {}
func (ProductDetailRequested) event() {}
func (DetailClosed) event()           {}
func (CartToggled) event()            {}
