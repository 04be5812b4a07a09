package order

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrInsufficientStock   = errors.New("insufficient stock for order")
)
