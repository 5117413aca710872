package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/hariprasanna/counterpos-backend/pkg/logger"
)

const draftRetentionDays = 14

type DraftCleanupJobParams struct {
	Logger     *logger.Logger
	Repository draftCleanupRepo
	Retention  int
}

type draftCleanupRepo interface {
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewDraftCleanupJob builds the job that drops parked carts nobody touched
// within the retention window.
func NewDraftCleanupJob(params DraftCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("drafts repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = draftRetentionDays
	}
	return &draftCleanupJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type draftCleanupJob struct {
	logg      *logger.Logger
	repo      draftCleanupRepo
	retention int
	now       func() time.Time
}

func (j *draftCleanupJob) Name() string { return "draft-cleanup" }

func (j *draftCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteUpdatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("draft cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "draft cleanup complete")
	return nil
}
