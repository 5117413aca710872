package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// ItemSales is the per-item aggregate for one business day.
type ItemSales struct {
	ItemID   uuid.UUID       `gorm:"column:item_id" json:"item_id"`
	Name     string          `gorm:"column:name" json:"name"`
	Quantity int             `gorm:"column:quantity" json:"quantity"`
	Revenue  decimal.Decimal `gorm:"column:revenue" json:"revenue"`
}

// Repository runs the read-only aggregates behind sales reports.
type Repository interface {
	CountOrders(ctx context.Context, from, to time.Time) (int64, error)
	SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	ItemSalesBetween(ctx context.Context, from, to time.Time) ([]ItemSales, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reports repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountOrders(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SumRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) ItemSalesBetween(ctx context.Context, from, to time.Time) ([]ItemSales, error) {
	var records []ItemSales
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Select("order_items.item_id AS item_id, order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Group("order_items.item_id, order_items.name").
		Order("quantity DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
