package handler

import (
	"revshare-engine/internal/adapter/http/middleware"
	redisStore "revshare-engine/internal/adapter/storage/redis"
	"revshare-engine/internal/core/domain"
	"revshare-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	OfferSvc       ports.OfferService
	PurchaseSvc    ports.PurchaseService
	LedgerSvc      ports.LedgerService
	BalanceSvc     ports.BalanceService
	AdminSvc       ports.AdminService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	offerHandler := NewOfferHandler(deps.OfferSvc)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	offers := v1.Group("/offers", jwtAuth)
	{
		offers.POST("", rl("offers"), offerHandler.CreateOffer)
		offers.GET("", rl("read"), offerHandler.ListMyOffers)
		offers.GET("/:id", rl("read"), offerHandler.GetOffer)
		offers.POST("/:id/deactivate", rl("offers"), offerHandler.DeactivateOffer)
		offers.GET("/:id/reconciliation", rl("read"), ledgerHandler.GetOfferReconciliation)
	}

	purchaseHandler := NewPurchaseHandler(deps.PurchaseSvc)
	purchases := v1.Group("/purchases", jwtAuth)
	{
		purchases.POST("", rl("purchases"), purchaseHandler.Purchase)
		purchases.GET("/:id", rl("read"), purchaseHandler.GetPurchase)
		purchases.POST("/:id/fulfill", rl("purchases"), purchaseHandler.Fulfill)
	}

	ledger := v1.Group("/ledger", jwtAuth)
	{
		ledger.GET("/me", rl("read"), ledgerHandler.GetMyStats)
	}

	territories := v1.Group("/territories", jwtAuth)
	{
		territories.POST("/:id/claim", rl("claims"), ledgerHandler.ClaimTerritory)
	}

	balanceHandler := NewBalanceHandler(deps.BalanceSvc)
	balances := v1.Group("/balances", jwtAuth)
	{
		balances.GET("", rl("read"), balanceHandler.GetBalances)
		balances.POST("/topup", rl("topup"), balanceHandler.Topup)
	}

	// --- Administrative control plane (JWT + admin role) ---
	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireRole(domain.RoleAdmin))
	{
		admin.POST("/pause", rl("admin"), adminHandler.SetPaused)
		admin.POST("/merchants/:id/approve", rl("admin"), adminHandler.ApproveMerchant)
		admin.POST("/accounts/:id/suspend", rl("admin"), adminHandler.SuspendAccount)
		admin.POST("/mint", rl("admin"), adminHandler.MintToken)
		admin.POST("/offers/:id/deactivate", rl("admin"), adminHandler.DeactivateOffer)
		admin.POST("/territories", rl("admin"), adminHandler.CreateTerritory)
		admin.POST("/introducers", rl("admin"), adminHandler.AddIntroducer)
	}

	return r
}
