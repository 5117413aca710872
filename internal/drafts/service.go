package drafts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

const defaultDraftName = "Untitled Draft"

// SaveDraftInput carries a parked cart. Lines keep their own price snapshot;
// a draft has no stock semantics until it is placed as a real order.
type SaveDraftInput struct {
	Name  string
	Items []models.DraftLineItem
}

// Service exposes draft order management.
type Service interface {
	SaveDraft(ctx context.Context, input SaveDraftInput) (*models.DraftOrder, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error)
	ListDrafts(ctx context.Context) ([]models.DraftOrder, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, input SaveDraftInput) (*models.DraftOrder, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds the drafts service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drafts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) SaveDraft(ctx context.Context, input SaveDraftInput) (*models.DraftOrder, error) {
	name, items, total, err := normalizeDraft(input)
	if err != nil {
		return nil, err
	}

	draft := &models.DraftOrder{
		Name:        name,
		Items:       items,
		TotalAmount: total,
	}
	created, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving draft")
	}
	return created, nil
}

func (s *service) GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	draft, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading draft")
	}
	return draft, nil
}

func (s *service) ListDrafts(ctx context.Context) ([]models.DraftOrder, error) {
	listed, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing drafts")
	}
	return listed, nil
}

func (s *service) UpdateDraft(ctx context.Context, id uuid.UUID, input SaveDraftInput) (*models.DraftOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	name, items, total, err := normalizeDraft(input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, id, map[string]any{
		"name":         name,
		"items":        items,
		"total_amount": total,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating draft")
	}
	return s.GetDraft(ctx, id)
}

func (s *service) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting draft")
	}
	return nil
}

// normalizeDraft validates the lines and derives the stored total from them.
func normalizeDraft(input SaveDraftInput) (string, []models.DraftLineItem, decimal.Decimal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = defaultDraftName
	}

	total := decimal.Zero
	for _, line := range input.Items {
		if line.ItemID == uuid.Nil {
			return "", nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "draft line item id is required")
		}
		if line.Quantity <= 0 {
			return "", nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "draft line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return "", nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "draft line price cannot be negative")
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	items := input.Items
	if items == nil {
		items = []models.DraftLineItem{}
	}
	return name, items, total, nil
}
