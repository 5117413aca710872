package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/internal/repo"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
)

// Repository exposes operator lookups used by the login flow.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Operator, error)
	Create(ctx context.Context, operator *models.Operator) error
}

type gormRepository struct {
	repo.Base
}

// NewRepository builds an operator repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{Base: repo.NewBase(db)}
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.DB(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&operator).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	var operator models.Operator
	if err := r.DB(ctx).Where("id = ?", id).First(&operator).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *gormRepository) Create(ctx context.Context, operator *models.Operator) error {
	if operator.ID == uuid.Nil {
		operator.ID = uuid.New()
	}
	return r.DB(ctx).Create(operator).Error
}
