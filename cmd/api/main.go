package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"revshare-engine/config"
	httpHandler "revshare-engine/internal/adapter/http/handler"
	pgStorage "revshare-engine/internal/adapter/storage/postgres"
	redisStorage "revshare-engine/internal/adapter/storage/redis"
	"revshare-engine/internal/core/ports"
	"revshare-engine/internal/observability/metrics"
	"revshare-engine/internal/service"
	"revshare-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Revenue Share Engine")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	introducerRepo := pgStorage.NewIntroducerRepo(pool)
	offerRepo := pgStorage.NewOfferRepo(pool)
	purchaseRepo := pgStorage.NewPurchaseRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	territoryRepo := pgStorage.NewTerritoryRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	stateRepo := pgStorage.NewStateRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)
	engineMetrics := metrics.Engine()

	// Initialize business services
	authSvc := service.NewAuthService(accountRepo, territoryRepo, hashSvc, tokenSvc)
	offerSvc := service.NewOfferService(offerRepo, accountRepo, log)
	purchaseSvc := service.NewPurchaseService(service.PurchaseServiceDeps{
		AccountRepo:    accountRepo,
		OfferRepo:      offerRepo,
		PurchaseRepo:   purchaseRepo,
		LedgerRepo:     ledgerRepo,
		TerritoryRepo:  territoryRepo,
		BalanceRepo:    balanceRepo,
		IntroducerRepo: introducerRepo,
		StateRepo:      stateRepo,
		EventRepo:      eventRepo,
		IdempRepo:      idempotencyRepo,
		IdempCache:     idempotencyCache,
		Transactor:     transactor,
		Metrics:        engineMetrics,
		BurnBps:        cfg.Engine.ProtocolBurnBps,
		IdempTTL:       cfg.Engine.IdempotencyTTL,
	}, log)
	ledgerSvc := service.NewLedgerService(ledgerRepo, territoryRepo, balanceRepo, purchaseRepo, transactor, engineMetrics, log)
	balanceSvc := service.NewBalanceService(balanceRepo, accountRepo, transactor, log)
	adminSvc := service.NewAdminService(accountRepo, offerRepo, territoryRepo, introducerRepo, balanceRepo, stateRepo, transactor, auditSvc, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		OfferSvc:       offerSvc,
		PurchaseSvc:    purchaseSvc,
		LedgerSvc:      ledgerSvc,
		BalanceSvc:     balanceSvc,
		AdminSvc:       adminSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
