package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drajad/kasbuku/internal/adapter/http/handler"
	"github.com/drajad/kasbuku/internal/adapter/http/middleware"
	"github.com/drajad/kasbuku/internal/infrastructure/auth"
	"github.com/drajad/kasbuku/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	TransactionHandler *handler.TransactionHandler
	InvoiceHandler     *handler.InvoiceHandler
	ReportHandler      *handler.ReportHandler
	ProfileHandler     *handler.ProfileHandler
	HealthHandler      *handler.HealthHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logging          *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	} else {
		r.Use(chimiddleware.Logger)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/register", cfg.AuthHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(cfg.JWTManager))
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Record)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", cfg.InvoiceHandler.Create)
				r.Get("/", cfg.InvoiceHandler.List)
				r.Get("/unpaid", cfg.InvoiceHandler.ListUnpaid)
				r.Get("/{id}", cfg.InvoiceHandler.Get)
				r.Get("/{id}/prefill", cfg.InvoiceHandler.Prefill)
				r.Post("/{id}/pay", cfg.InvoiceHandler.Pay)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", cfg.ReportHandler.Summary)
				r.Get("/buckets", cfg.ReportHandler.Buckets)
				r.Get("/categories", cfg.ReportHandler.Categories)
				r.Get("/export", cfg.ReportHandler.Export)
			})

			r.Get("/dashboard", cfg.ReportHandler.Dashboard)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", cfg.ProfileHandler.Get)
				r.With(middleware.RequireOwner).Put("/", cfg.ProfileHandler.Update)
			})
		})
	})

	return r
}
