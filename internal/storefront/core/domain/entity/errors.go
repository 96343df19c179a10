package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when an id does not resolve against the
	// catalog snapshot.
	ErrProductNotFound = errors.New("product not found in catalog snapshot")
	// ErrLineItemNotFound is returned when a quantity change targets a product
	// that is not in the cart.
	ErrLineItemNotFound = errors.New("line item not found in cart")
)

// NetworkError covers transport failures and non-OK responses from the
// catalog API. StatusCode is zero for transport failures.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the response body did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
