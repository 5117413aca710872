package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

// AvailabilityProvider derives remaining stock per item for one business date.
type AvailabilityProvider interface {
	AvailabilityForDate(ctx context.Context, date businessday.Date) (map[uuid.UUID]int, error)
}

// Service exposes catalog item management and the availability-enriched listing.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error)
	DeactivateItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, includeInactive bool) (*ItemList, error)
}

type service struct {
	repo     Repository
	stock    AvailabilityProvider
	calendar *businessday.Calendar
}

// NewService builds the catalog service.
func NewService(repo Repository, stock AvailabilityProvider, calendar *businessday.Calendar) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("availability provider required")
	}
	if calendar == nil {
		return nil, fmt.Errorf("business calendar required")
	}
	return &service{repo: repo, stock: stock, calendar: calendar}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
	}

	item := &models.Item{
		Name:         name,
		Price:        input.Price,
		IsActive:     true,
		DisplayOrder: input.DisplayOrder,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating item")
	}
	return created, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading item")
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.DisplayOrder != nil {
		updates["display_order"] = *input.DisplayOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating item")
	}
	return s.GetItem(ctx, id)
}

// DeactivateItem soft-deletes: the item disappears from the active listing but
// stays referencable from historical order lines.
func (s *service) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating item")
	}
	return nil
}

// ListItems returns the catalog enriched with today's derived availability.
// A stock lookup failure degrades the listing (availability omitted) instead
// of failing the read path; the item list itself must still load.
func (s *service) ListItems(ctx context.Context, includeInactive bool) (*ItemList, error) {
	items, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing items")
	}

	today := s.calendar.Today()
	list := &ItemList{
		Items:             make([]ItemSummary, 0, len(items)),
		StockDate:         today.String(),
		AvailabilityKnown: true,
	}

	availability, err := s.stock.AvailabilityForDate(ctx, today)
	if err != nil {
		list.AvailabilityKnown = false
		availability = nil
	}

	for _, item := range items {
		summary := ItemSummary{
			ID:           item.ID,
			Name:         item.Name,
			Price:        item.Price,
			IsActive:     item.IsActive,
			DisplayOrder: item.DisplayOrder,
			CreatedAt:    item.CreatedAt,
			UpdatedAt:    item.UpdatedAt,
		}
		if available, ok := availability[item.ID]; ok {
			value := available
			summary.Available = &value
		}
		list.Items = append(list.Items, summary)
	}
	return list, nil
}
