package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/gobooks/internal/adapter/http"
	"github.com/iho/gobooks/internal/adapter/http/handler"
	"github.com/iho/gobooks/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gobooks/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gobooks/internal/adapter/repository/redis"
	"github.com/iho/gobooks/internal/infrastructure/auth"
	"github.com/iho/gobooks/internal/infrastructure/config"
	"github.com/iho/gobooks/internal/infrastructure/eventpublisher"
	"github.com/iho/gobooks/internal/infrastructure/logger"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
	"github.com/iho/gobooks/internal/infrastructure/postgres"
	"github.com/iho/gobooks/internal/infrastructure/redis"
	"github.com/iho/gobooks/internal/usecase"
)

const (
	rateLimiterCleanupInterval = time.Minute
	rateLimiterIdleTimeout     = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run migrations before the pool is opened
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	checks := []handler.HealthCheck{handler.PostgresCheck(pool)}

	// Connect to Redis
	var (
		redisClient      *goredis.Client
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.RedisCheck(redisClient))
	} else {
		log.Warn().Msg("REDIS_URL is empty, idempotency keys are disabled")
	}

	m := metrics.New(nil)
	policy := closingPolicy(cfg)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(m).WithLogger(appLogger)
	idGen := postgresRepo.NewULIDGenerator()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	lockRepo := postgresRepo.NewPeriodLockRepository(pool)
	fyRepo := postgresRepo.NewFiscalYearRepository(pool)
	checklistRepo := postgresRepo.NewChecklistRepository(pool)
	closingRepo := postgresRepo.NewClosingOperationRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	numbers := postgresRepo.NewNumberGenerator(pool)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	lockUC := usecase.NewPeriodLockUseCase(txManager, lockRepo, outboxRepo, idGen, m).
		WithLogger(appLogger)
	journalUC := usecase.NewJournalUseCase(txManager, journalRepo, accountRepo, outboxRepo, numbers, lockUC, idGen, m).
		WithRetrier(retrier).
		WithLogger(appLogger)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, accountRepo)
	fiscalUC := usecase.NewFiscalYearUseCase(txManager, fyRepo, outboxRepo, idGen).
		WithLogger(appLogger)
	checklistUC := usecase.NewChecklistUseCase(checklistRepo, fyRepo, closingRepo, idGen, m,
		usecase.NewDraftsResolvedVerifier(journalRepo),
		usecase.NewTrialBalanceVerifier(ledgerUC),
	).WithLogger(appLogger)
	calculator := usecase.NewLedgerClosingCalculator(ledgerRepo, accountRepo, policy)
	closingUC := usecase.NewClosingUseCase(txManager, journalUC, fyRepo, checklistRepo, closingRepo, outboxRepo, calculator, lockUC, idGen, policy, m).
		WithRetrier(retrier).
		WithLogger(appLogger)

	// Rate limiting
	rateLimiter := newRateLimiter(cfg)
	if rateLimiter != nil {
		go rateLimiter.StartCleanup(ctx, rateLimiterCleanupInterval, rateLimiterIdleTimeout)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC),
		JournalHandler:    handler.NewJournalHandler(journalUC),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		FiscalYearHandler: handler.NewFiscalYearHandler(fiscalUC),
		ClosingHandler:    handler.NewClosingHandler(checklistUC, closingUC, lockUC),
		HealthHandler:     handler.NewHealthHandler(checks...),
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       rateLimiter,
		Logger:            appLogger,
		JWTManager:        newJWTManager(cfg),
	})

	// Relay outbox events
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(appLogger),
		Logger:     &appLogger,
		Metrics:    m,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         serverAddr(cfg),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Bool("auth", cfg.AuthEnabled).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	stop()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func serverAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%s", cfg.HTTPPort)
}

func closingPolicy(cfg *config.Config) usecase.ClosingPolicy {
	policy := usecase.DefaultClosingPolicy()
	policy.GatePercentage = cfg.ClosingGatePercentage
	if cfg.ProfitLossAccount != "" {
		policy.ProfitLossAccount = cfg.ProfitLossAccount
	}
	if cfg.RetainedEarningsAccount != "" {
		policy.RetainedEarningsAccount = cfg.RetainedEarningsAccount
	}
	if cfg.OpeningBalanceAccount != "" {
		policy.OpeningBalanceAccount = cfg.OpeningBalanceAccount
	}
	return policy
}

// newRateLimiter returns nil when rate limiting is disabled.
func newRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = int(cfg.RateLimitRPS)
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, burst)
}

// newJWTManager returns nil when token auth is disabled, which makes the
// router trust the actor headers.
func newJWTManager(cfg *config.Config) *auth.JWTManager {
	if !cfg.AuthEnabled {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
}
