package product

// CanFulfill reports whether the requested quantity can be satisfied by the
// product's stock at the time of the snapshot. This is a point-in-time check:
// nothing reserves the stock between validation and order creation.
func CanFulfill(p *Product, requestedQty int) bool {
	if p == nil {
		return false
	}
	return requestedQty >= 1 && requestedQty <= p.StockQuantity
}
