package wishlist

import "errors"

var (
	// ErrDuplicateEntry means the (user, product) pair is already on the
	// wishlist. Callers treat it as "already present", not a hard failure.
	ErrDuplicateEntry = errors.New("item already in wishlist")

	ErrItemNotFound    = errors.New("wishlist item not found")
	ErrProductNotFound = errors.New("product not found")

	// -- Constants (External Systems) --
	pgUniqueViolation = "23505"
)
