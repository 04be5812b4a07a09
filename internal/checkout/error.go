package checkout

import "errors"

var (
	ErrSessionNotFound      = errors.New("no active checkout session")
	ErrSessionExpired       = errors.New("checkout session expired")
	ErrInvalidTransition    = errors.New("checkout step not allowed from current state")
	ErrAddressRequired      = errors.New("shipping address not selected")
	ErrPaymentRequired      = errors.New("payment method not selected")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrSubmitInProgress     = errors.New("checkout submission already in progress")
	ErrAlreadyConfirmed     = errors.New("checkout already confirmed")
)

// payment methods the storefront accepts.
var paymentMethods = map[string]struct{}{
	"credit":  {},
	"ewallet": {},
	"bank":    {},
	"cod":     {},
}

func ValidPaymentMethod(method string) bool {
	_, ok := paymentMethods[method]
	return ok
}
