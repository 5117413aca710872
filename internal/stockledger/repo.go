package stockledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// Repository manages persistence for daily stock allotments and the sold-sum
// aggregate they are measured against.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	UpsertDailyStock(ctx context.Context, entry *models.DailyStockEntry) error
	FindDailyStock(ctx context.Context, itemID uuid.UUID, stockDate string) (*models.DailyStockEntry, error)
	ListDailyStockForDate(ctx context.Context, stockDate string) ([]models.DailyStockEntry, error)
	SumSoldQuantity(ctx context.Context, itemID uuid.UUID, from, to time.Time) (int, error)
	SumSoldQuantities(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error)
	DeleteStockBefore(ctx context.Context, stockDate string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// UpsertDailyStock writes the allotment for (item_id, stock_date). A second
// write for the same key replaces initial_stock rather than adding to it.
func (r *repository) UpsertDailyStock(ctx context.Context, entry *models.DailyStockEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "stock_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"initial_stock", "updated_at"}),
		}).
		Create(entry).Error
}

func (r *repository) FindDailyStock(ctx context.Context, itemID uuid.UUID, stockDate string) (*models.DailyStockEntry, error) {
	var entry models.DailyStockEntry
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND stock_date = ?", itemID, stockDate).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListDailyStockForDate(ctx context.Context, stockDate string) ([]models.DailyStockEntry, error) {
	var entries []models.DailyStockEntry
	err := r.db.WithContext(ctx).
		Where("stock_date = ?", stockDate).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumSoldQuantity totals line-item quantities for one item across orders
// created in [from, to). The order's creation timestamp decides which business
// day a sale belongs to, so revised orders keep counting against the original
// day.
func (r *repository) SumSoldQuantity(ctx context.Context, itemID uuid.UUID, from, to time.Time) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.item_id = ?", itemID).
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

type soldQuantityRecord struct {
	ItemID   uuid.UUID `gorm:"column:item_id"`
	Quantity int64     `gorm:"column:quantity"`
}

// SumSoldQuantities returns per-item sold totals for orders created in
// [from, to). Items with no sales are absent from the map.
func (r *repository) SumSoldQuantities(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	var records []soldQuantityRecord
	err := r.db.WithContext(ctx).
		Model(&models.OrderLineItem{}).
		Select("order_items.item_id AS item_id, COALESCE(SUM(order_items.quantity), 0) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Group("order_items.item_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	sold := make(map[uuid.UUID]int, len(records))
	for _, record := range records {
		sold[record.ItemID] = int(record.Quantity)
	}
	return sold, nil
}

func (r *repository) DeleteStockBefore(ctx context.Context, stockDate string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("stock_date < ?", stockDate).
		Delete(&models.DailyStockEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
