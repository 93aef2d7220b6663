package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping address owned by a user. Orders copy an
// address into their shipping_address snapshot instead of referencing it,
// so editing or deleting an Address never changes past orders.
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Street    string    `json:"street" db:"street"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Zip       string    `json:"zip" db:"zip"`
	Country   string    `json:"country" db:"country"`
	IsDefault bool      `json:"is_default" db:"is_default"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddressPatch enumerates the updatable address fields.
type AddressPatch struct {
	Street    *string
	City      *string
	State     *string
	Zip       *string
	Country   *string
	IsDefault *bool
}

// Apply merges the non-nil patch fields into the address.
func (p *AddressPatch) Apply(address *Address) {
	if p.Street != nil {
		address.Street = *p.Street
	}
	if p.City != nil {
		address.City = *p.City
	}
	if p.State != nil {
		address.State = *p.State
	}
	if p.Zip != nil {
		address.Zip = *p.Zip
	}
	if p.Country != nil {
		address.Country = *p.Country
	}
	if p.IsDefault != nil {
		address.IsDefault = *p.IsDefault
	}
}
