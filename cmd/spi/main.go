package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-spi-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/storm-spi-service/internal/config"
	"github.com/couchcryptid/storm-spi-service/internal/model"
	"github.com/couchcryptid/storm-spi-service/internal/observability"
	"github.com/couchcryptid/storm-spi-service/internal/scoring"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"
)

func main() {
	// A missing .env is fine; real environment variables always win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize prediction cache (disabled when PREDICTION_CACHE_SIZE is 0).
	var cache *model.PredictionCache
	if cfg.PredictionCacheSize > 0 {
		cache, err = model.NewPredictionCache(cfg.PredictionCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create prediction cache", "error", err)
			os.Exit(1)
		}
		logger.Info("prediction cache enabled", "size", cfg.PredictionCacheSize)
	}

	manifest, found, err := model.ReadManifest(cfg.ManifestPath())
	if err != nil {
		logger.Error("failed to read model manifest", "path", cfg.ManifestPath(), "error", err)
		os.Exit(1)
	}
	if !found {
		logger.Info("no model manifest, using default layout", "path", cfg.ManifestPath())
	}

	ensemble, err := model.Load(cfg.ModelDir, manifest, model.LoadOptions{Cache: cache, Logger: logger})
	if err != nil {
		logger.Error("failed to load models", "dir", cfg.ModelDir, "error", err)
		os.Exit(1)
	}
	metrics.ModelsLoaded.Set(float64(len(ensemble.Members())))

	svc := scoring.New(ensemble, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger, metrics,
		httpadapter.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, clockwork.NewRealClock()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if cache != nil {
		cache.Close()
	}

	logger.Info("shutdown complete")
}
