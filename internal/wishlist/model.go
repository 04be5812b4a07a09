package wishlist

import (
	"time"

	"analog-alley-be/internal/product"

	"github.com/google/uuid"
)

// WishlistItem is boolean membership: at most one row per (user, product),
// enforced by a unique constraint.
type WishlistItem struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product *product.Product `json:"product,omitempty"`
}
