package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	Category    string          `json:"category" db:"category"`
	IsFeatured  bool            `json:"is_featured" db:"is_featured"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ProductPatch enumerates the product fields that may be changed after
// creation. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Category    *string
	IsFeatured  *bool
	IsDeleted   *bool
}

// Apply merges the non-nil patch fields into the product.
func (p *ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Slug != nil {
		product.Slug = *p.Slug
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.IsFeatured != nil {
		product.IsFeatured = *p.IsFeatured
	}
	if p.IsDeleted != nil {
		product.IsDeleted = *p.IsDeleted
	}
}
