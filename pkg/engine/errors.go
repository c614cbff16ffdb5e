package engine

import "errors"

// Sentinel errors returned by the engine. Callers match with errors.Is;
// all of them are expected conditions, not panics.
var (
	// ErrInvalidSide means an order carried a side outside {Buy, Sell}.
	// Intake leaves the registry untouched when it sees one.
	ErrInvalidSide = errors.New("invalid order side")

	// ErrInvalidQuantity means a non-positive ordered quantity.
	ErrInvalidQuantity = errors.New("order quantity must be positive")

	// ErrBookNotFound means the instrument has never received an order.
	ErrBookNotFound = errors.New("order book not found")

	// ErrEmptyBook means a pop was attempted on a side with no resting orders.
	ErrEmptyBook = errors.New("order book side is empty")

	// ErrDuplicateOrderID means an order id was already inserted at some
	// point in the registry's lifetime.
	ErrDuplicateOrderID = errors.New("duplicate order id")
)
