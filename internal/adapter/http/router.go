package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/auth"
	"github.com/iho/gobooks/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler    *handler.AccountHandler
	JournalHandler    *handler.JournalHandler
	LedgerHandler     *handler.LedgerHandler
	FiscalYearHandler *handler.FiscalYearHandler
	ClosingHandler    *handler.ClosingHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	RateLimiter       *middleware.RateLimiter
	Logger            zerolog.Logger
	// JWTManager enables bearer token auth. When nil the actor is taken from
	// the X-Actor-ID and X-Actor-Role headers.
	JWTManager *auth.JWTManager
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	writer := middleware.RequireRole(domain.RoleAccountant)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		} else {
			r.Use(middleware.HeaderActor)
		}
		r.Use(middleware.Company)
		r.Use(middleware.RequireRole(domain.RoleViewer))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.With(writer).Post("/", cfg.AccountHandler.Create)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.With(writer).Delete("/{id}", cfg.AccountHandler.Delete)
		})

		// Journal
		r.Route("/journal-entries", func(r chi.Router) {
			r.Get("/", cfg.JournalHandler.List)
			r.With(writer).Post("/", cfg.JournalHandler.Create)
			r.Get("/{id}", cfg.JournalHandler.Get)
			r.With(writer).Put("/{id}", cfg.JournalHandler.Update)
			r.With(writer).Delete("/{id}", cfg.JournalHandler.Delete)
			r.With(writer).Post("/{id}/post", cfg.JournalHandler.Post)
			r.With(writer).Post("/{id}/reverse", cfg.JournalHandler.Reverse)
		})

		// Reports
		r.Get("/ledger", cfg.LedgerHandler.GeneralLedger)
		r.Get("/trial-balance", cfg.LedgerHandler.TrialBalance)

		// Fiscal years
		r.Route("/fiscal-years", func(r chi.Router) {
			r.Get("/", cfg.FiscalYearHandler.List)
			r.With(writer).Post("/", cfg.FiscalYearHandler.Create)
			r.Get("/{id}", cfg.FiscalYearHandler.Get)
			r.With(admin).Post("/{id}/close", cfg.FiscalYearHandler.Close)
		})

		// Year-end closing
		r.Route("/closing", func(r chi.Router) {
			r.Get("/checklist", cfg.ClosingHandler.GetChecklist)
			r.With(writer).Post("/checklist", cfg.ClosingHandler.SetChecklistItem)
			r.With(writer).Post("/checklist/verify", cfg.ClosingHandler.VerifyChecklist)

			r.Get("/operations", cfg.ClosingHandler.ListOperations)
			r.With(admin).Post("/operations", cfg.ClosingHandler.ExecuteOperation)

			r.Get("/period-lock", cfg.ClosingHandler.ListLocks)
			r.With(writer).Post("/period-lock", cfg.ClosingHandler.LockPeriod)
			r.With(admin).Delete("/period-lock/{id}", cfg.ClosingHandler.UnlockPeriod)
		})
	})

	return r
}
