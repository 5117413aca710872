package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hariprasanna/counterpos-backend/internal/cron"
	"github.com/hariprasanna/counterpos-backend/internal/drafts"
	"github.com/hariprasanna/counterpos-backend/internal/orders"
	"github.com/hariprasanna/counterpos-backend/internal/stockledger"
	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/config"
	"github.com/hariprasanna/counterpos-backend/pkg/db"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
	"github.com/hariprasanna/counterpos-backend/pkg/metrics"
	"github.com/hariprasanna/counterpos-backend/pkg/migrate"
	"github.com/hariprasanna/counterpos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	calendar, err := businessday.NewCalendar(cfg.Business.Timezone, businessday.SystemClock{})
	if err != nil {
		logg.Error(context.Background(), "failed to load business timezone", err)
		os.Exit(1)
	}

	draftCleanup, err := cron.NewDraftCleanupJob(cron.DraftCleanupJobParams{
		Logger:     logg,
		Repository: drafts.NewRepository(dbClient.DB()),
		Retention:  cfg.Cron.DraftRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create draft cleanup job", err)
		os.Exit(1)
	}

	historyRetention, err := cron.NewHistoryRetentionJob(cron.HistoryRetentionJobParams{
		Logger:    logg,
		Stock:     stockledger.NewRepository(dbClient.DB()),
		Orders:    orders.NewRepository(dbClient.DB()),
		Calendar:  calendar,
		Retention: cfg.Cron.StockRetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create history retention job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(draftCleanup, historyRetention),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
