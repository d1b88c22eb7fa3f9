package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/handler"
	"github.com/melodykoh/the-mini-mint/internal/adapter/http/middleware"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/auth"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/metrics"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MemberHandler    *handler.MemberHandler
	LedgerHandler    *handler.LedgerHandler
	SavingsHandler   *handler.SavingsHandler
	LotHandler       *handler.LotHandler
	StockHandler     *handler.StockHandler
	SnapshotHandler  *handler.SnapshotHandler
	AdminHandler     *handler.AdminHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
	IdempotencyTTL   time.Duration
}

// NewRouter creates the HTTP router. Reads are open to any authenticated
// user; money movement requires the parent role; settings and price
// ingestion require the admin surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Metrics).Limit)
	}

	// Unauthenticated surface
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/auth/register", cfg.AuthHandler.Register)
	r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Get("/auth/me", cfg.AuthHandler.GetCurrentUser)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", cfg.MemberHandler.List)
			r.With(middleware.RequireParent).Post("/", cfg.MemberHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.MemberHandler.Get)
				r.Get("/balances", cfg.LedgerHandler.GetBalances)
				r.Get("/portfolio", cfg.LedgerHandler.GetPortfolio)
				r.Get("/entries", cfg.LedgerHandler.ListEntries)
				r.Get("/lots", cfg.LotHandler.List)
				r.Get("/positions", cfg.StockHandler.ListPositions)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireParent)

					r.Post("/deposit", cfg.LedgerHandler.Deposit)
					r.Post("/withdraw", cfg.LedgerHandler.Withdraw)
					r.Post("/transfer", cfg.LedgerHandler.Transfer)
					r.Post("/spend", cfg.LedgerHandler.Spend)
					r.Post("/accrue", cfg.SavingsHandler.Accrue)
					r.Post("/lots", cfg.LotHandler.Create)
					r.Post("/buy", cfg.StockHandler.Buy)
					r.Post("/sell", cfg.StockHandler.Sell)
					r.Post("/snapshots", cfg.SnapshotHandler.Record)
				})
			})
		})

		r.Route("/lots/{lotID}", func(r chi.Router) {
			r.Get("/", cfg.LotHandler.Get)
			r.With(middleware.RequireParent).Post("/mature", cfg.LotHandler.Mature)
			r.With(middleware.RequireParent).Post("/break", cfg.LotHandler.Break)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.AdminHandler.GetSettings)
			r.With(middleware.RequireAdmin).Put("/{key}", cfg.AdminHandler.SetSetting)
		})

		r.Route("/prices", func(r chi.Router) {
			r.Get("/{symbol}", cfg.AdminHandler.GetLatestPrice)
			r.With(middleware.RequireAdmin).Post("/", cfg.AdminHandler.RecordPrice)
		})
	})

	return r
}
