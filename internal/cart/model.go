package cart

import (
	"time"

	"analog-alley-be/internal/product"

	"github.com/google/uuid"
)

// CartItem is one (user, product) line. The pair is logically unique:
// adding an already-present product increments its quantity instead of
// creating a second row.
type CartItem struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Product is populated on joined reads for display and pricing.
	Product *product.Product `json:"product,omitempty"`
}
