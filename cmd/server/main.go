package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/krzysztofcal/chipledger/internal/adapter/http"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/handler"
	"github.com/krzysztofcal/chipledger/internal/adapter/http/middleware"
	postgresRepo "github.com/krzysztofcal/chipledger/internal/adapter/repository/postgres"
	redisRepo "github.com/krzysztofcal/chipledger/internal/adapter/repository/redis"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/config"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/logger"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/metrics"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/postgres"
	"github.com/krzysztofcal/chipledger/internal/infrastructure/redis"
	"github.com/krzysztofcal/chipledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(cfg.RetryMaxAttempts, cfg.RetryMaxElapsed, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txRepo, entryRepo, ledgerRepo, idGen, retrier, m)
	settlementUC := usecase.NewSettlementUseCase(ledgerUC, m)
	accountUC := usecase.NewAccountUseCase(accountRepo)
	entryUC := usecase.NewEntryUseCase(entryRepo, txRepo)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		SettlementHandler: handler.NewSettlementHandler(settlementUC),
		PokerHandler:      handler.NewPokerHandler(),
		AccountHandler:    handler.NewAccountHandler(accountUC),
		EntryHandler:      handler.NewEntryHandler(entryUC, cache),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		Logger:            zlog,
		Metrics:           m,
		RateLimiter:       middleware.NewRateLimiter(100, 200),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
