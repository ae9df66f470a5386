// Package common provides shared utilities for folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for folio
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Analytics   AnalyticsConfig `toml:"analytics"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the path for the embedded ledger store.
type StorageConfig struct {
	Path string `toml:"path"`
}

// AnalyticsConfig carries the tunables for the valuation engine. It is passed
// into the service explicitly; the engine holds no ambient settings.
type AnalyticsConfig struct {
	RiskFreeRatePct     float64 `toml:"risk_free_rate_pct"`    // annual, used by Sharpe in both granularities
	DefaultWindowMonths int     `toml:"default_window_months"` // 0 means full history
	DefaultGranularity  string  `toml:"default_granularity"`   // "monthly" or "daily"
	RebalanceBandPct    float64 `toml:"rebalance_band_pct"`    // neutral band as % of effective total
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/ledger",
		},
		Analytics: AnalyticsConfig{
			RiskFreeRatePct:     2.0,
			DefaultWindowMonths: 0,
			DefaultGranularity:  "monthly",
			RebalanceBandPct:    1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateAnalytics(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if rf := os.Getenv("FOLIO_RISK_FREE_RATE_PCT"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Analytics.RiskFreeRatePct = v
		}
	}
}

// validateAnalytics clamps analytics settings to usable values.
func validateAnalytics(config *Config) {
	g := strings.ToLower(strings.TrimSpace(config.Analytics.DefaultGranularity))
	if g != "monthly" && g != "daily" {
		g = "monthly"
	}
	config.Analytics.DefaultGranularity = g

	if config.Analytics.RebalanceBandPct <= 0 {
		config.Analytics.RebalanceBandPct = 1.0
	}
	if config.Analytics.DefaultWindowMonths < 0 {
		config.Analytics.DefaultWindowMonths = 0
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
