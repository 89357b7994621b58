package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/krzysztofcal/chipledger/internal/adapter/http/handler"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/middleware"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/metrics"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

// RouterConfig holds dependencies for the router. IdempotencyStore,
// Metrics, and RateLimiter are optional.
type RouterConfig struct {
	LedgerHandler     *handler.LedgerHandler
	SettlementHandler *handler.SettlementHandler
	PokerHandler      *handler.PokerHandler
	AccountHandler    *handler.AccountHandler
	EntryHandler      *handler.EntryHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Logger            zerolog.Logger
	Metrics           *metrics.Metrics
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	loggingMiddleware := middleware.NewLoggingMiddleware(cfg.Logger)
	r.Use(loggingMiddleware.Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		metricsMiddleware := middleware.NewMetricsMiddleware(cfg.Metrics)
		r.Use(metricsMiddleware.Wrap)
	}

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.PostTransaction)
			r.Get("/", cfg.EntryHandler.GetTransactionByIdempotencyKey)
			r.Get("/{id}", cfg.EntryHandler.GetTransaction)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/by-key", cfg.AccountHandler.GetByKey)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
		})

		r.Get("/users/{userID}/account", cfg.AccountHandler.GetUserAccount)

		r.Route("/poker", func(r chi.Router) {
			r.Post("/side-pots", cfg.PokerHandler.SidePots)
			r.Post("/showdown", cfg.PokerHandler.Showdown)
			r.Post("/showdown/redact", cfg.PokerHandler.Redact)
			r.Post("/settlements", cfg.SettlementHandler.SettleHand)
			r.Post("/cash-outs", cfg.SettlementHandler.CashOutSeat)
			r.Post("/buy-ins", cfg.SettlementHandler.BuyIn)
			r.Post("/bot-top-ups", cfg.SettlementHandler.TopUpBot)
		})

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
	})

	return r
}
