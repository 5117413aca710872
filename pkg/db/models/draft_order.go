package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftLineItem is one cart position held inside a draft. Drafts keep their
// items as a document, not as rows: they carry no stock semantics and only
// become real line items through order placement.
type DraftLineItem struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DraftOrder is a named, unsubmitted cart parked server-side.
type DraftOrder struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null;default:'Untitled Draft'"`
	Items       []DraftLineItem `gorm:"column:items;type:jsonb;serializer:json"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original schema name.
func (DraftOrder) TableName() string {
	return "draft_orders"
}
