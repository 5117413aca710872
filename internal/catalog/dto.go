package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemInput carries the fields accepted when adding a catalog item.
type CreateItemInput struct {
	Name         string
	Price        decimal.Decimal
	DisplayOrder int
}

// UpdateItemInput carries optional updates; nil fields are left untouched.
type UpdateItemInput struct {
	Name         *string
	Price        *decimal.Decimal
	DisplayOrder *int
	IsActive     *bool
}

// ItemSummary is the catalog row returned to the counter UI. Available is nil
// when no allotment exists for the day or when availability could not be
// derived.
type ItemSummary struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	DisplayOrder int             `json:"display_order"`
	Available    *int            `json:"available,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemList wraps the catalog listing. AvailabilityKnown is false when the
// stock lookup failed and the listing was served without per-item counts.
type ItemList struct {
	Items             []ItemSummary `json:"items"`
	StockDate         string        `json:"stock_date"`
	AvailabilityKnown bool          `json:"availability_known"`
}
