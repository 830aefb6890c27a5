package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/clientscore/backend/internal/api/routes"
	"github.com/clientscore/backend/internal/cache"
	"github.com/clientscore/backend/internal/config"
	"github.com/clientscore/backend/internal/database"
	"github.com/clientscore/backend/internal/services"
	"github.com/clientscore/backend/internal/store"
	"github.com/clientscore/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

// bootstrap loads config, initializes the logger and opens the database.
func bootstrap() (*config.Config, *store.Store, error) {
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.LogLevel)

	warnings, err := cfg.Validate()
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	db, err := database.Init(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("initialize database: %w", err)
	}
	return cfg, store.New(db), nil
}

// openRedis returns nil when REDIS_URL is unset.
func openRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, business cache disabled")
		return nil, nil
	}
	return database.NewRedisClient(ctx, cfg.RedisURL)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, s, err := bootstrap()
	if err != nil {
		return err
	}
	if err := database.Migrate(s.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := routes.SetupRoutes(router, s, client, cfg); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	_, s, err := bootstrap()
	if err != nil {
		return err
	}
	if err := database.Migrate(s.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}

func runRecompute(cmd *cobra.Command, args []string) error {
	if !recomputeAll && len(args) == 0 {
		return errors.New("pass one or more business ids, or --all")
	}

	cfg, s, err := bootstrap()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}
	engine := services.NewAggregationEngine(s, cache.NewBusinessCache(client, cfg.CacheTTL))

	if recomputeAll {
		done, err := engine.RecomputeAll(ctx)
		logger.WithFields(logger.Fields{"recomputed": done}).Info("Recompute finished")
		return err
	}

	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid business id %q: %w", arg, err)
		}
		agg, err := engine.Recompute(ctx, id)
		if err != nil {
			return fmt.Errorf("recompute %s: %w", id, err)
		}
		logger.WithFields(logger.Fields{
			"business_id":   id,
			"total_reviews": agg.TotalReviews,
			"average":       agg.AverageRating,
		}).Info("Recomputed")
	}
	return nil
}
