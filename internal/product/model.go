package product

import (
	"github.com/google/uuid"
)

// Product is a read-only catalog snapshot. The catalog subsystem owns the
// rows; this service only reads them for cart display, pricing, and stock
// validation.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	ImageURL      *string   `json:"image_url"`
}
