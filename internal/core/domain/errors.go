package domain

import "errors"

// Expected domain failures. Everything else that bubbles up from
// the stores is an infrastructure failure and is never mapped to
// one of these sentinels.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUserNotFound      = errors.New("user not found")
	ErrOrderNotFound     = errors.New("order not found")
)

// ErrCartLineNotFound reports an absent (user, product) cart
// line. It stays internal to the cart flow and is not part of
// the caller-facing taxonomy above.
var ErrCartLineNotFound = errors.New("cart line not found")
