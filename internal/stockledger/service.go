package stockledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

// ItemChecker answers whether a catalog item exists before stock is assigned to it.
type ItemChecker interface {
	ItemExists(ctx context.Context, itemID uuid.UUID) (bool, error)
}

// Service exposes the stock ledger operations. Availability is always derived
// from the day's allotment minus line items sold that day; nothing here ever
// increments or decrements a stored counter.
type Service interface {
	GetAvailableStock(ctx context.Context, itemID uuid.UUID, date businessday.Date) (int, error)
	SetDailyStock(ctx context.Context, input SetDailyStockInput) (*models.DailyStockEntry, error)
	AvailabilityForDate(ctx context.Context, date businessday.Date) (map[uuid.UUID]int, error)
}

// SetDailyStockInput carries one allotment write.
type SetDailyStockInput struct {
	ItemID       uuid.UUID
	Date         businessday.Date
	InitialStock int
}

type service struct {
	repo     Repository
	items    ItemChecker
	calendar *businessday.Calendar
}

// NewService builds the stock ledger service.
func NewService(repo Repository, items ItemChecker, calendar *businessday.Calendar) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock ledger repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item checker required")
	}
	if calendar == nil {
		return nil, fmt.Errorf("business calendar required")
	}
	return &service{repo: repo, items: items, calendar: calendar}, nil
}

// GetAvailableStock returns the remaining sellable quantity for an item on a
// business date, clamped at zero. A missing allotment row means zero allotted,
// not an error; a store failure is surfaced rather than defaulted.
func (s *service) GetAvailableStock(ctx context.Context, itemID uuid.UUID, date businessday.Date) (int, error) {
	if itemID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if date.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	initial := 0
	entry, err := s.repo.FindDailyStock(ctx, itemID, date.String())
	switch {
	case err == nil:
		initial = entry.InitialStock
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no allotment for the day; sold quantities still count below zero-clamp
	default:
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading daily stock")
	}

	from, to := s.calendar.DayBounds(date)
	sold, err := s.repo.SumSoldQuantity(ctx, itemID, from, to)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing sold quantity")
	}

	available := initial - sold
	if available < 0 {
		available = 0
	}
	return available, nil
}

// SetDailyStock upserts the allotment for (item, date). Re-running the same
// write is a no-op; a different value replaces the previous allotment.
func (s *service) SetDailyStock(ctx context.Context, input SetDailyStockInput) (*models.DailyStockEntry, error) {
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if input.InitialStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial stock cannot be negative")
	}

	exists, err := s.items.ItemExists(ctx, input.ItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking item")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	entry := &models.DailyStockEntry{
		ItemID:       input.ItemID,
		StockDate:    input.Date.String(),
		InitialStock: input.InitialStock,
	}
	if err := s.repo.UpsertDailyStock(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upserting daily stock")
	}
	return entry, nil
}

// AvailabilityForDate derives remaining stock for every item with an allotment
// on the given date. Used to enrich catalog listings in one round trip instead
// of per-item queries.
func (s *service) AvailabilityForDate(ctx context.Context, date businessday.Date) (map[uuid.UUID]int, error) {
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	entries, err := s.repo.ListDailyStockForDate(ctx, date.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing daily stock")
	}

	from, to := s.calendar.DayBounds(date)
	sold, err := s.repo.SumSoldQuantities(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing sold quantities")
	}

	availability := make(map[uuid.UUID]int, len(entries))
	for _, entry := range entries {
		available := entry.InitialStock - sold[entry.ItemID]
		if available < 0 {
			available = 0
		}
		availability[entry.ItemID] = available
	}
	return availability, nil
}
