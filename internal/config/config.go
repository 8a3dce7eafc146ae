package config

import (
	"errors"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Model artifacts.
	ModelDir      string
	ModelManifest string // absolute, or relative to ModelDir

	// PredictionCacheSize is the number of memoized member outputs; 0 disables.
	PredictionCacheSize int64

	// Per-client submission limit; RateLimitRPS 0 disables.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cacheSize, err := strconv.ParseInt(sharedcfg.EnvOrDefault("PREDICTION_CACHE_SIZE", "1024"), 10, 64)
	if err != nil || cacheSize < 0 {
		return nil, errors.New("invalid PREDICTION_CACHE_SIZE")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RATE_LIMIT_RPS", "5"), 64)
	if err != nil || rps < 0 {
		return nil, errors.New("invalid RATE_LIMIT_RPS")
	}

	burst, err := strconv.Atoi(sharedcfg.EnvOrDefault("RATE_LIMIT_BURST", "10"))
	if err != nil || burst < 1 {
		return nil, errors.New("invalid RATE_LIMIT_BURST")
	}

	cfg := &Config{
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		ModelDir:            sharedcfg.EnvOrDefault("MODEL_DIR", "model"),
		ModelManifest:       sharedcfg.EnvOrDefault("MODEL_MANIFEST", "manifest.yaml"),
		PredictionCacheSize: cacheSize,
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
	}

	if cfg.ModelDir == "" {
		return nil, errors.New("MODEL_DIR is required")
	}

	return cfg, nil
}

// ManifestPath resolves ModelManifest against ModelDir.
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.ModelManifest) {
		return c.ModelManifest
	}
	return filepath.Join(c.ModelDir, c.ModelManifest)
}
