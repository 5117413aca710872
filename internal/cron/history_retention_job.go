package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
)

const historyRetentionDays = 365

type HistoryRetentionJobParams struct {
	Logger    *logger.Logger
	Stock     stockRetentionRepo
	Orders    orderRetentionRepo
	Calendar  *businessday.Calendar
	Retention int
}

type stockRetentionRepo interface {
	DeleteStockBefore(ctx context.Context, stockDate string) (int64, error)
}

type orderRetentionRepo interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewHistoryRetentionJob builds the job that prunes stock allotments and
// orders older than the retention window. Both sides are trimmed at the same
// business-day boundary so availability derived for any surviving day still
// sees every sale that counts against it.
func NewHistoryRetentionJob(params HistoryRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Stock == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Calendar == nil {
		return nil, fmt.Errorf("calendar required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = historyRetentionDays
	}
	return &historyRetentionJob{
		logg:      params.Logger,
		stock:     params.Stock,
		orders:    params.Orders,
		calendar:  params.Calendar,
		retention: retention,
	}, nil
}

type historyRetentionJob struct {
	logg      *logger.Logger
	stock     stockRetentionRepo
	orders    orderRetentionRepo
	calendar  *businessday.Calendar
	retention int
}

func (j *historyRetentionJob) Name() string { return "history-retention" }

func (j *historyRetentionJob) Run(ctx context.Context) error {
	cutoffDate := j.calendar.Today().AddDays(-j.retention)
	cutoffInstant, _ := j.calendar.DayBounds(cutoffDate)

	var errs []error
	var stockDeleted, ordersDeleted int64

	rows, err := j.stock.DeleteStockBefore(ctx, cutoffDate.String())
	if err != nil {
		errs = append(errs, fmt.Errorf("prune stock allotments: %w", err))
	} else {
		stockDeleted = rows
	}

	rows, err = j.orders.DeleteCreatedBefore(ctx, cutoffInstant)
	if err != nil {
		errs = append(errs, fmt.Errorf("prune orders: %w", err))
	} else {
		ordersDeleted = rows
	}

	if combined := multierr.Combine(errs...); combined != nil {
		return fmt.Errorf("history retention: %w", combined)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff_date":    cutoffDate.String(),
		"retention_days": j.retention,
		"stock_deleted":  stockDeleted,
		"orders_deleted": ordersDeleted,
	})
	j.logg.Info(logCtx, "history retention complete")
	return nil
}
