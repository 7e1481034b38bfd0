package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. The slug is the stable external identifier
// used in public URLs; the UUID is internal. JSON field names follow the
// public API contract consumed by the storefront.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Slug          string    `json:"slug"`
	Image         string    `json:"image"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	SubCategory   string    `json:"subCategory"`
	ExtraCategory *string   `json:"extraCategory,omitempty"`
	Features      []string  `json:"features"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
