package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hariprasanna/counterpos-backend/api/routes"
	"github.com/hariprasanna/counterpos-backend/internal/auth"
	"github.com/hariprasanna/counterpos-backend/internal/catalog"
	"github.com/hariprasanna/counterpos-backend/internal/drafts"
	"github.com/hariprasanna/counterpos-backend/internal/orders"
	"github.com/hariprasanna/counterpos-backend/internal/qrcodes"
	"github.com/hariprasanna/counterpos-backend/internal/reports"
	"github.com/hariprasanna/counterpos-backend/internal/stockledger"
	"github.com/hariprasanna/counterpos-backend/pkg/auth/session"
	"github.com/hariprasanna/counterpos-backend/pkg/businessday"
	"github.com/hariprasanna/counterpos-backend/pkg/config"
	"github.com/hariprasanna/counterpos-backend/pkg/db"
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
	"github.com/hariprasanna/counterpos-backend/pkg/migrate"
	"github.com/hariprasanna/counterpos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())

	stockService, err := stockledger.NewService(stockledger.NewRepository(dbClient.DB()), catalogRepo, calendar)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock ledger service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, stockService, calendar)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), catalogRepo, dbClient, calendar)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	draftsService, err := drafts.NewService(drafts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create drafts service", err)
		os.Exit(1)
	}

	qrService, err := qrcodes.NewService(qrcodes.NewRepository(dbClient.DB()), dbClient, redisClient, cfg.Business.QRCacheTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create qr code service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), calendar)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		OperatorRepo:   auth.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			Calendar:    calendar,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Auth:        authService,
			Catalog:     catalogService,
			StockLedger: stockService,
			Orders:      ordersService,
			Drafts:      draftsService,
			QRCodes:     qrService,
			Reports:     reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
