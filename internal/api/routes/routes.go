package routes

import (
	"fmt"
	"time"

	"github.com/clientscore/backend/internal/api/handlers"
	"github.com/clientscore/backend/internal/api/middleware"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/models"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/internal/utils"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes wires services and handlers onto router. client may be nil, in
// which case the business cache is off and rate limits are kept in memory.
func SetupRoutes(router *gin.Engine, s *store.Store, client *redis.Client, cfg *config.Config) error {
	// nil trusts no proxy, so X-Forwarded-For cannot pick the rate limit key
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigin))

	globalLimit, err := middleware.RateLimitMiddleware(cfg, client)
	if err != nil {
		return err
	}
	submitLimit, err := middleware.ReviewSubmitLimiter(cfg, client)
	if err != nil {
		return err
	}

	// Initialize services
	tokens := &utils.TokenIssuer{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	businessCache := cache.NewBusinessCache(client, cfg.CacheTTL)
	gate := services.NewIdentityGate(s, tokens)
	engine := services.NewAggregationEngine(s, businessCache)
	authService := services.NewAuthService(s, gate, tokens, cfg.BcryptCost)
	reviewService := services.NewReviewService(s, engine, businessCache, services.ReviewPolicyFromConfig(cfg))
	moderationService := services.NewModerationService(s, engine, businessCache)
	businessService := services.NewBusinessService(s, businessCache)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(s, client)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	businessHandler := handlers.NewBusinessHandler(businessService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(moderationService, engine, authService)

	requireAuth := middleware.AuthMiddleware(gate, cfg.TokenCookieName)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1", globalLimit)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	businesses := api.Group("/businesses")
	{
		businesses.GET("", businessHandler.Search)
		businesses.POST("", requireAuth, businessHandler.Create)
		businesses.GET("/:id", businessHandler.Get)
		businesses.GET("/:id/reviews", reviewHandler.ListForBusiness)
	}

	reviews := api.Group("/reviews", requireAuth)
	{
		reviews.POST("", submitLimit, reviewHandler.Submit)
		reviews.GET("/mine", reviewHandler.ListMine)
		reviews.PATCH("/:id/visibility", reviewHandler.SetVisibility)
	}

	admin := api.Group("/admin", requireAuth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/reviews/pending", adminHandler.PendingReviews)
		admin.PATCH("/reviews/:id/moderation", adminHandler.ModerateReview)
		admin.POST("/businesses/:id/recompute", adminHandler.RecomputeBusiness)
		admin.PATCH("/accounts/:id/suspension", adminHandler.SetAccountSuspension)
	}

	logger.WithFields(logger.Fields{
		"cache":           businessCache.Enabled(),
		"moderation_mode": cfg.ModerationMode,
		"cache_ttl":       cfg.CacheTTL.Round(time.Second).String(),
	}).Info("Routes initialized successfully")
	return nil
}
