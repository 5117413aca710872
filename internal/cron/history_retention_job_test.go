package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
)

func TestHistoryRetentionJobPrunesBothSides(t *testing.T) {
	// 2025-09-15 10:00 IST.
	calendar := retentionTestCalendar(t, time.Date(2025, 9, 15, 4, 30, 0, 0, time.UTC))
	stock := &fakeStockRetentionRepo{deletedRows: 30}
	orders := &fakeOrderRetentionRepo{deletedRows: 12}
	job := newHistoryRetentionJob(t, stock, orders, calendar, 10)

	require.NoError(t, job.Run(context.Background()))

	require.Equal(t, "2025-09-05", stock.lastCutoff)
	// Midnight IST on the cutoff date is 18:30 UTC the previous evening.
	require.True(t, orders.lastCutoff.Equal(time.Date(2025, 9, 4, 18, 30, 0, 0, time.UTC)))
}

func TestHistoryRetentionJobCombinesFailures(t *testing.T) {
	calendar := retentionTestCalendar(t, time.Date(2025, 9, 15, 4, 30, 0, 0, time.UTC))
	stock := &fakeStockRetentionRepo{err: errors.New("stock boom")}
	orders := &fakeOrderRetentionRepo{err: errors.New("orders boom")}
	job := newHistoryRetentionJob(t, stock, orders, calendar, 10)

	err := job.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "stock boom")
	require.Contains(t, err.Error(), "orders boom")
	// A failing stock prune must not stop the order prune.
	require.Equal(t, 1, orders.called)
}

func newHistoryRetentionJob(t *testing.T, stock *fakeStockRetentionRepo, orders *fakeOrderRetentionRepo, calendar *businessday.Calendar, retention int) Job {
	t.Helper()
	job, err := NewHistoryRetentionJob(HistoryRetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Stock:     stock,
		Orders:    orders,
		Calendar:  calendar,
		Retention: retention,
	})
	require.NoError(t, err)
	return job
}

func retentionTestCalendar(t *testing.T, instant time.Time) *businessday.Calendar {
	t.Helper()
	calendar, err := businessday.NewCalendar("Asia/Kolkata", businessday.FixedClock{Instant: instant})
	require.NoError(t, err)
	return calendar
}

type fakeStockRetentionRepo struct {
	lastCutoff  string
	deletedRows int64
	err         error
	called      int
}

func (f *fakeStockRetentionRepo) DeleteStockBefore(ctx context.Context, stockDate string) (int64, error) {
	f.called++
	f.lastCutoff = stockDate
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}

type fakeOrderRetentionRepo struct {
	lastCutoff  time.Time
	deletedRows int64
	err         error
	called      int
}

func (f *fakeOrderRetentionRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}
