package pricing

import "math"

// Policy holds the storefront pricing constants. Amounts are rupiah; these
// come from configuration, not code.
type Policy struct {
	// Shipping is waived only when the subtotal strictly exceeds this.
	FreeShippingThreshold int64
	FlatShippingFee       int64
	TaxRate               float64
}

// Line is one cart line with a resolved product.
type Line struct {
	UnitPrice int64
	Quantity  int
}

type Quote struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shipping_cost"`
	Tax          int64 `json:"tax"`
	Discount     int64 `json:"discount"`
	Total        int64 `json:"total"`
}

// Engine computes order totals from cart lines. Pure; safe to call on every
// cart or address change so the checkout never trusts a stale total.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Quote(lines []Line) Quote {
	if len(lines) == 0 {
		return Quote{}
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPrice * int64(l.Quantity)
	}

	var shipping int64
	if subtotal <= e.policy.FreeShippingThreshold {
		shipping = e.policy.FlatShippingFee
	}

	// Tax is rounded half-up, matching the storefront's totals to the
	// smallest currency unit.
	tax := roundHalfUp(float64(subtotal) * e.policy.TaxRate)

	var discount int64

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Discount:     discount,
		Total:        subtotal + shipping + tax - discount,
	}
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
