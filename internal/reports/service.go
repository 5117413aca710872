package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

// DailySummary aggregates one business day of counter sales.
type DailySummary struct {
	Date         string          `json:"date"`
	OrderCount   int64           `json:"order_count"`
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	Items        []ItemSales     `json:"items"`
}

// Service exposes sales reporting reads.
type Service interface {
	DailySummary(ctx context.Context, date businessday.Date) (*DailySummary, error)
}

type service struct {
	repo     Repository
	calendar *businessday.Calendar
}

// NewService builds the reports service.
func NewService(repo Repository, calendar *businessday.Calendar) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if calendar == nil {
		return nil, fmt.Errorf("business calendar required")
	}
	return &service{repo: repo, calendar: calendar}, nil
}

// DailySummary totals orders placed on the given business date. Revisions and
// deletions that already happened are reflected automatically since the totals
// are computed from current rows, not from running counters.
func (s *service) DailySummary(ctx context.Context, date businessday.Date) (*DailySummary, error) {
	if date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}

	from, to := s.calendar.DayBounds(date)

	count, err := s.repo.CountOrders(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting orders")
	}
	revenue, err := s.repo.SumRevenue(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summing revenue")
	}
	items, err := s.repo.ItemSalesBetween(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating item sales")
	}
	if items == nil {
		items = []ItemSales{}
	}

	return &DailySummary{
		Date:         date.String(),
		OrderCount:   count,
		GrossRevenue: revenue,
		Items:        items,
	}, nil
}
