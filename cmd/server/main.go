package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mealplanner/backend/config"
	httpDelivery "github.com/mealplanner/backend/internal/delivery/http"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/cache"
	"github.com/mealplanner/backend/internal/infrastructure/catalog"
	"github.com/mealplanner/backend/internal/infrastructure/detector"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"github.com/mealplanner/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting meal planner backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	foods, err := catalog.Open(startupCtx, cfg.Catalog, logger)
	if err != nil {
		return err
	}

	store, err := cache.New(startupCtx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer store.Close()

	// Image detection is optional
	var objectDetector domain.ObjectDetector
	if cfg.Detector.BaseURL != "" {
		objectDetector = detector.NewClient(cfg.Detector, cfg.RateLimit.Detector, logger)
		logger.Info("object detector configured",
			zap.String("base_url", cfg.Detector.BaseURL),
			zap.Bool("api_key_set", cfg.Detector.APIKey != ""),
		)
	} else {
		logger.Warn("object detector not configured; image detection is disabled")
	}

	planService := usecase.NewPlanService(foods, logger, usecase.PlanServiceConfig{
		Seed:               cfg.Planner.Seed,
		EnableDebugLogging: cfg.Planner.Debug,
	})
	foodService := usecase.NewFoodService(foods)
	detectionService := usecase.NewDetectionService(store, objectDetector, foods, logger, usecase.DetectionServiceConfig{
		CacheTTL:      cfg.Cache.TTL,
		MinConfidence: cfg.Detector.MinConfidence,
	})

	handler := httpDelivery.NewHandler(planService, foodService, detectionService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start server: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
