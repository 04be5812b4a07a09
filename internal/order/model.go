package order

import (
	"time"

	"analog-alley-be/internal/address"

	"github.com/google/uuid"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order is an immutable record of a completed checkout. Amounts are
// rupiah and the shipping address is denormalized at submission time, so
// later catalog or address-book edits never rewrite history.
type Order struct {
	ID          uuid.UUID `json:"id"`
	UserID      uint      `json:"user_id"`
	OrderNumber string    `json:"order_number"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`

	Subtotal     int64  `json:"subtotal"`
	ShippingCost int64  `json:"shipping_cost"`
	Tax          int64  `json:"tax"`
	Discount     int64  `json:"discount"`
	Total        int64  `json:"total"`
	Currency     string `json:"currency"`

	ShippingAddress address.Snapshot `json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem captures one purchased line. Name and price are copied from
// the product at submission time.
type OrderItem struct {
	ID        uint      `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`

	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`

	ImageURL *string `json:"image_url,omitempty"`
}

// CreateOrderInput carries the checkout selections into order creation.
type CreateOrderInput struct {
	AddressID     uuid.UUID
	PaymentMethod string
}

// OrderCreatedEvent is the payload published to the broker after an
// order commits.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uint      `json:"user_id"`
	Total       int64     `json:"total"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}
