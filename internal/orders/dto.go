package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hariprasanna/counterpos-backend/pkg/enums"
)

// LineItemInput is one item position submitted with a place or revise call.
type LineItemInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// PlaceOrderInput carries a new counter sale.
type PlaceOrderInput struct {
	Items []LineItemInput
	Total decimal.Decimal
}

// ReviseOrderInput replaces an order's line items and total wholesale.
type ReviseOrderInput struct {
	OrderID uuid.UUID
	Items   []LineItemInput
	Total   decimal.Decimal
}

// ListFilters narrows the order listing to a business-day window.
type ListFilters struct {
	DateFilter enums.OrderDateFilter
}
