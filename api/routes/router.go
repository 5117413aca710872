package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hariprasanna/counterpos-backend/api/controllers"
	"github.com/hariprasanna/counterpos-backend/api/middleware"
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
	"github.com/hariprasanna/counterpos-backend/pkg/logger"
	"github.com/hariprasanna/counterpos-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Calendar    *businessday.Calendar
	DB          controllersPinger
	Redis       *redis.Client
	Sessions    sessionManager
	Auth        auth.Service
	Catalog     catalog.Service
	StockLedger stockledger.Service
	Orders      orders.Service
	Drafts      drafts.Service
	QRCodes     qrcodes.Service
	Reports     reports.Service
}

type controllersPinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the chi router with the full middleware chain.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadyDeps(deps.DB, deps.Redis)))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(deps.Catalog, logg))
			r.Post("/", controllers.CreateItem(deps.Catalog, logg))
			r.Get("/{itemID}", controllers.GetItem(deps.Catalog, logg))
			r.Patch("/{itemID}", controllers.UpdateItem(deps.Catalog, logg))
			r.Delete("/{itemID}", controllers.DeactivateItem(deps.Catalog, logg))
		})

		r.Route("/v1/stock", func(r chi.Router) {
			r.Get("/", controllers.GetDayAvailability(deps.StockLedger, deps.Calendar, logg))
			r.Put("/{itemID}", controllers.SetDailyStock(deps.StockLedger, logg))
			r.Get("/{itemID}", controllers.GetAvailableStock(deps.StockLedger, deps.Calendar, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.PlaceOrder(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			r.Put("/{orderID}", controllers.ReviseOrder(deps.Orders, logg))
			r.Delete("/{orderID}", controllers.DeleteOrder(deps.Orders, logg))
		})

		r.Route("/v1/drafts", func(r chi.Router) {
			r.Get("/", controllers.ListDrafts(deps.Drafts, logg))
			r.Post("/", controllers.SaveDraft(deps.Drafts, logg))
			r.Get("/{draftID}", controllers.GetDraft(deps.Drafts, logg))
			r.Put("/{draftID}", controllers.UpdateDraft(deps.Drafts, logg))
			r.Delete("/{draftID}", controllers.DeleteDraft(deps.Drafts, logg))
		})

		r.Route("/v1/qrcodes", func(r chi.Router) {
			r.Get("/", controllers.ListQRCodes(deps.QRCodes, logg))
			r.Post("/", controllers.CreateQRCode(deps.QRCodes, logg))
			r.Get("/active", controllers.GetActiveQRCode(deps.QRCodes, logg))
			r.Post("/{qrID}/activate", controllers.ActivateQRCode(deps.QRCodes, logg))
			r.Delete("/{qrID}", controllers.DeleteQRCode(deps.QRCodes, logg))
		})

		r.Route("/v1/reports", func(r chi.Router) {
			r.Get("/daily", controllers.DailyReport(deps.Reports, deps.Calendar, logg))
		})
	})

	return r
}
