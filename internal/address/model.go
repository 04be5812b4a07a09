package address

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID     uuid.UUID `json:"id"`
	UserID uint      `json:"user_id"`

	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	// At most one address per user carries this flag; the application
	// maintains the invariant, not the schema.
	IsDefault bool `json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAddressInput struct {
	Street       string
	City         string
	Province     string
	PostalCode   string
	Country      string
	SetAsDefault bool
}

type UpdateAddressInput struct {
	AddressID    uuid.UUID
	Street       string
	City         string
	Province     string
	PostalCode   string
	Country      string
	SetAsDefault bool
}

// Snapshot is the denormalized form embedded into an order at submission
// time; later edits or deletes of the address do not touch order history.
type Snapshot struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a *Address) Snapshot() Snapshot {
	return Snapshot{
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
