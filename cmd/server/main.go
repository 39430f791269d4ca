package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/drajad/kasbuku/internal/adapter/http"
	"github.com/drajad/kasbuku/internal/adapter/http/handler"
	"github.com/drajad/kasbuku/internal/adapter/http/middleware"
	postgresRepo "github.com/drajad/kasbuku/internal/adapter/repository/postgres"
	redisRepo "github.com/drajad/kasbuku/internal/adapter/repository/redis"
	sheetsGoogle "github.com/drajad/kasbuku/internal/adapter/sheets/google"
	"github.com/drajad/kasbuku/internal/infrastructure/auth"
	"github.com/drajad/kasbuku/internal/infrastructure/config"
	"github.com/drajad/kasbuku/internal/infrastructure/eventpublisher"
	"github.com/drajad/kasbuku/internal/infrastructure/logger"
	"github.com/drajad/kasbuku/internal/infrastructure/logging"
	"github.com/drajad/kasbuku/internal/infrastructure/metrics"
	"github.com/drajad/kasbuku/internal/infrastructure/postgres"
	"github.com/drajad/kasbuku/internal/infrastructure/redis"
	"github.com/drajad/kasbuku/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	invoiceRepo := postgresRepo.NewInvoiceRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	profileRepo := postgresRepo.NewProfileRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	transactionUC := usecase.NewTransactionUseCase(
		txManager, transactionRepo, invoiceRepo, outboxRepo, cache, idGen, appMetrics,
	).WithRetrier(retrier)
	invoiceUC := usecase.NewInvoiceUseCase(
		txManager, invoiceRepo, transactionRepo, outboxRepo, idGen, appMetrics,
	).WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(transactionRepo, invoiceRepo, cache, appMetrics)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	profileUC := usecase.NewProfileUseCase(profileRepo)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Optional Google Sheets export target
	var sheetsWriter usecase.LedgerWriter
	if cfg.SheetsExportEnabled {
		client, err := sheetsGoogle.NewFromEnv(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize sheets export")
		}
		sheetsWriter = client
		log.Info().Msg("sheets export enabled")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager)
	transactionHandler := handler.NewTransactionHandler(transactionUC)
	invoiceHandler := handler.NewInvoiceHandler(invoiceUC)
	reportHandler := handler.NewReportHandler(reportUC, sheetsWriter)
	profileHandler := handler.NewProfileHandler(profileUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		TransactionHandler: transactionHandler,
		InvoiceHandler:     invoiceHandler,
		ReportHandler:      reportHandler,
		ProfileHandler:     profileHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst),
		Logging:            middleware.NewLoggingMiddleware(log.Logger),
	})

	// Outbox publisher: RabbitMQ when configured, log output otherwise
	publisherLogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	var publisher eventpublisher.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, appMetrics)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to rabbitmq")
	} else {
		publisher = eventpublisher.NewLogPublisher(publisherLogger.Logger)
	}

	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	go func() {
		ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publisher,
			Logger:     publisherLogger.Logger,
		})
		if err := ep.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
