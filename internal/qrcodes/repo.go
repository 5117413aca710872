package qrcodes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// Repository manages persistence for payment QR codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, code *models.QRCode) (*models.QRCode, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.QRCode, error)
	FindActive(ctx context.Context) (*models.QRCode, error)
	List(ctx context.Context) ([]models.QRCode, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a QR code repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, code *models.QRCode) (*models.QRCode, error) {
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.QRCode, error) {
	var code models.QRCode
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *repository) FindActive(ctx context.Context) (*models.QRCode, error) {
	var code models.QRCode
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *repository) List(ctx context.Context) ([]models.QRCode, error) {
	var listed []models.QRCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&listed).Error
	if err != nil {
		return nil, err
	}
	return listed, nil
}

func (r *repository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&models.QRCode{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

func (r *repository) SetActive(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.QRCode{}).
		Where("id = ?", id).
		Update("is_active", true)
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
		Delete(&models.QRCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
