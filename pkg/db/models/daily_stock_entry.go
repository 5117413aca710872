package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyStockEntry is the planned allotment of an item for one business date.
// Keyed on (item_id, stock_date); a later write for the same key replaces the
// earlier value. Available stock is never stored here — it is derived from
// this allotment minus the day's order line quantities.
type DailyStockEntry struct {
	ItemID       uuid.UUID `gorm:"column:item_id;type:uuid;primaryKey"`
	StockDate    string    `gorm:"column:stock_date;type:date;primaryKey"`
	InitialStock int       `gorm:"column:initial_stock;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the original schema name.
func (DailyStockEntry) TableName() string {
	return "daily_stock"
}
