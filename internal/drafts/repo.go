package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// Repository manages persistence for held draft orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, draft *models.DraftOrder) (*models.DraftOrder, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error)
	List(ctx context.Context) ([]models.DraftOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a drafts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, draft *models.DraftOrder) (*models.DraftOrder, error) {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	var draft models.DraftOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *repository) List(ctx context.Context) ([]models.DraftOrder, error) {
	var listed []models.DraftOrder
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&listed).Error
	if err != nil {
		return nil, err
	}
	return listed, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.DraftOrder{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.DraftOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUpdatedBefore drops drafts that have not been touched since the
// cutoff. Used by the retention cron job.
func (r *repository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Delete(&models.DraftOrder{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
