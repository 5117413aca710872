package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/db/models"
	"github.com/hariprasanna/counterpos-backend/pkg/enums"
	pkgerrors "github.com/hariprasanna/counterpos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ItemFinder loads catalog items so orders can snapshot name and price.
type ItemFinder interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)
}

// Service exposes the order lifecycle. Place, revise, and delete all run as
// single transactions; stock availability reacts to them purely through the
// derived ledger computation, so none of these operations touch stock rows.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	ReviseOrder(ctx context.Context, input ReviseOrderInput) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filters ListFilters) ([]models.Order, error)
}

type service struct {
	repo     Repository
	items    ItemFinder
	tx       txRunner
	calendar *businessday.Calendar
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, items ItemFinder, tx txRunner, calendar *businessday.Calendar) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if calendar == nil {
		return nil, fmt.Errorf("business calendar required")
	}
	return &service{repo: repo, items: items, tx: tx, calendar: calendar}, nil
}

// PlaceOrder creates the order and its line items atomically. The order's
// creation timestamp anchors it to today's business date for stock accounting.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	lines, err := s.buildLineItems(ctx, input.Items, input.Total)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TotalAmount: input.Total,
		Status:      enums.OrderStatusCompleted,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := txRepo.CreateLineItems(ctx, lines); err != nil {
			return fmt.Errorf("creating line items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "placing order")
	}

	return s.GetOrder(ctx, order.ID)
}

// ReviseOrder replaces line items and total in one transaction. The order id
// and created_at survive untouched, so a revised order keeps counting against
// the business day it was originally placed on.
func (s *service) ReviseOrder(ctx context.Context, input ReviseOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	if _, err := s.repo.FindByID(ctx, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}

	lines, err := s.buildLineItems(ctx, input.Items, input.Total)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteLineItemsByOrder(ctx, input.OrderID); err != nil {
			return fmt.Errorf("clearing line items: %w", err)
		}
		for i := range lines {
			lines[i].OrderID = input.OrderID
		}
		if err := txRepo.CreateLineItems(ctx, lines); err != nil {
			return fmt.Errorf("writing line items: %w", err)
		}
		if err := txRepo.UpdateOrder(ctx, input.OrderID, map[string]any{
			"total_amount": input.Total,
		}); err != nil {
			return fmt.Errorf("updating order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revising order")
	}

	return s.GetOrder(ctx, input.OrderID)
}

// DeleteOrder removes the order and its line items in one transaction. The
// sold quantities for the day drop with them; no stock row is written back.
func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteLineItemsByOrder(ctx, orderID); err != nil {
			return fmt.Errorf("deleting line items: %w", err)
		}
		if err := txRepo.DeleteOrder(ctx, orderID); err != nil {
			return fmt.Errorf("deleting order: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order")
	}
	return nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return order, nil
}

// ListOrders returns orders for the requested business-day window, newest first.
func (s *service) ListOrders(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	var from, to *time.Time

	switch filters.DateFilter {
	case enums.OrderDateFilterToday:
		start, end := s.calendar.DayBounds(s.calendar.Today())
		from, to = &start, &end
	case enums.OrderDateFilterYesterday:
		start, end := s.calendar.DayBounds(s.calendar.Today().AddDays(-1))
		from, to = &start, &end
	case enums.OrderDateFilterAll:
		// unbounded
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown date filter %q", filters.DateFilter))
	}

	listed, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return listed, nil
}

// buildLineItems validates the submitted positions and snapshots catalog
// name/price into order line rows. The submitted total must equal the sum of
// the computed subtotals.
func (s *service) buildLineItems(ctx context.Context, inputs []LineItemInput, total decimal.Decimal) ([]models.OrderLineItem, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line item")
	}
	if total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total cannot be negative")
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, line := range inputs {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id is required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be positive")
		}
		if _, dup := seen[line.ItemID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate line item")
		}
		seen[line.ItemID] = struct{}{}
		ids = append(ids, line.ItemID)
	}

	found, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading items")
	}
	byID := make(map[uuid.UUID]models.Item, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	lines := make([]models.OrderLineItem, 0, len(inputs))
	computed := decimal.Zero
	for _, line := range inputs {
		item, ok := byID[line.ItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		computed = computed.Add(subtotal)
		lines = append(lines, models.OrderLineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
			Subtotal:  subtotal,
		})
	}

	if !computed.Equal(total) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total does not match line items").
			WithDetails(map[string]any{"computed": computed.String(), "submitted": total.String()})
	}
	return lines, nil
}
