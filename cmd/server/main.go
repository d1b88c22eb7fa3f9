package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/melodykoh/the-mini-mint/internal/adapter/http"
	"github.com/melodykoh/the-mini-mint/internal/adapter/http/handler"
	postgresRepo "github.com/melodykoh/the-mini-mint/internal/adapter/repository/postgres"
	redisRepo "github.com/melodykoh/the-mini-mint/internal/adapter/repository/redis"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/auth"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/config"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/logger"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/metrics"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/postgres"
	"github.com/melodykoh/the-mini-mint/internal/infrastructure/redis"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

const priceCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "minimint-server",
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, cancelStartup := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancelStartup()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	lotRepo := postgresRepo.NewLotRepository(pool)
	positionRepo := postgresRepo.NewPositionRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	priceRepo := redisRepo.NewPriceCache(postgresRepo.NewPriceRepository(pool), redisClient, priceCacheTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock{}
	locker := usecase.NewMemberLocker()

	// Use cases
	transferUC := usecase.NewTransferUseCase(txManager, memberRepo, entryRepo, locker, idGen, clock)
	balanceUC := usecase.NewBalanceUseCase(memberRepo, entryRepo, lotRepo, positionRepo, priceRepo)
	interestUC := usecase.NewInterestUseCase(transferUC, memberRepo, entryRepo, settingsRepo)
	lotUC := usecase.NewLotUseCase(transferUC, memberRepo, lotRepo, settingsRepo)
	stockUC := usecase.NewStockUseCase(transferUC, memberRepo, positionRepo, priceRepo, settingsRepo)
	snapshotUC := usecase.NewSnapshotUseCase(transferUC, memberRepo, entryRepo, settingsRepo)
	memberUC := usecase.NewMemberUseCase(memberRepo, idGen, clock)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, priceRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen, clock)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MemberHandler:    handler.NewMemberHandler(memberUC),
		LedgerHandler:    handler.NewLedgerHandler(transferUC, balanceUC),
		SavingsHandler:   handler.NewSavingsHandler(interestUC),
		LotHandler:       handler.NewLotHandler(lotUC),
		StockHandler:     handler.NewStockHandler(stockUC),
		SnapshotHandler:  handler.NewSnapshotHandler(snapshotUC),
		AdminHandler:     handler.NewAdminHandler(settingsUC),
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Metrics:          appMetrics,
		Logger:           appLogger,
		RateLimit:        cfg.RateLimitPerSecond,
		RateBurst:        cfg.RateLimitBurst,
		IdempotencyTTL:   cfg.IdempotencyTTL,
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
