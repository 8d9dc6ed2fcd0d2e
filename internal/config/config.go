// Package config reads verification-run defaults from the environment.
// The scoring functions themselves take explicit parameters; this layer
// only supplies process-level defaults for batch runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"possver/domain/possibility"
	"possver/internal/scoring"
)

// Config represents the complete verification run configuration
type Config struct {
	Scoring  ScoringConfig
	Run      RunConfig
	Database DatabaseConfig
}

// ScoringConfig holds score parameter defaults
type ScoringConfig struct {
	Kappa       float64
	Lambda      float64
	Epsilon     float64
	Levels      []possibility.Level
	WidthMetric scoring.WidthMetric
	Smoothing   float64 // climatology neighbor smoothing, 0 = off
}

// RunConfig holds batch execution settings
type RunConfig struct {
	Workers int
}

// DatabaseConfig holds the optional result-store connection
type DatabaseConfig struct {
	URL string // empty when no store is configured
}

// Load reads configuration from the environment, honoring a .env file when
// one is present.
func Load() (*Config, error) {
	// Missing .env is the normal library case, not an error.
	_ = godotenv.Load()

	scoringCfg, err := loadScoringConfig()
	if err != nil {
		return nil, fmt.Errorf("loading scoring configuration: %w", err)
	}

	cfg := &Config{
		Scoring: *scoringCfg,
		Run: RunConfig{
			Workers: getEnvIntOrDefault("VERIFY_WORKERS", 4),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}
	if cfg.Run.Workers < 1 {
		return nil, fmt.Errorf("VERIFY_WORKERS must be positive, got %d", cfg.Run.Workers)
	}
	return cfg, nil
}

func loadScoringConfig() (*ScoringConfig, error) {
	levels, err := parseLevels(getEnvOrDefault("CUT_LEVELS", "0.1,0.25,0.5,0.75,0.9"))
	if err != nil {
		return nil, err
	}
	metric := scoring.WidthMetric(getEnvOrDefault("WIDTH_METRIC", string(scoring.WidthOuterSpan)))
	switch metric {
	case scoring.WidthOuterSpan, scoring.WidthMemberCount:
	default:
		return nil, fmt.Errorf("unknown WIDTH_METRIC %q", metric)
	}
	return &ScoringConfig{
		Kappa:       getEnvFloatOrDefault("SCORE_KAPPA", 0.5),
		Lambda:      getEnvFloatOrDefault("SCORE_LAMBDA", 0.1),
		Epsilon:     getEnvFloatOrDefault("SCORE_EPSILON", 1e-6),
		Levels:      levels,
		WidthMetric: metric,
		Smoothing:   getEnvFloatOrDefault("CLIM_SMOOTHING", 0),
	}, nil
}

// Params materializes the scoring parameters from the loaded defaults.
func (c ScoringConfig) Params() scoring.Params {
	return scoring.Params{
		Kappa:       c.Kappa,
		Lambda:      c.Lambda,
		Epsilon:     c.Epsilon,
		Levels:      c.Levels,
		WidthMetric: c.WidthMetric,
	}
}

func parseLevels(raw string) ([]possibility.Level, error) {
	parts := strings.Split(raw, ",")
	levels := make([]possibility.Level, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cut level %q: %w", part, err)
		}
		r := possibility.Level(v)
		if err := r.Validate(); err != nil {
			return nil, err
		}
		levels = append(levels, r)
	}
	return levels, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
