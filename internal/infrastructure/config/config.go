// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	engine := recon.NewEngine(cfg.Matching.ToEngineConfig())
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finclear/reconcile-backend/internal/domain/recon"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Statement     StatementConfig     `yaml:"statement"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds the reconciliation engine thresholds
type MatchingConfig struct {
	NameThreshold      int     `yaml:"name_threshold"`
	AmountTolerance    float64 `yaml:"amount_tolerance"`
	DateRangeDays      int     `yaml:"date_range_days"`
	AutoMatchThreshold int     `yaml:"auto_match_threshold"`
}

// ToEngineConfig converts the YAML shape into the engine's config.
// Zero values are left for the engine to clamp to its defaults.
func (m MatchingConfig) ToEngineConfig() recon.Config {
	return recon.Config{
		NameThreshold:      m.NameThreshold,
		AmountTolerance:    m.AmountTolerance,
		DateRangeDays:      m.DateRangeDays,
		AutoMatchThreshold: m.AutoMatchThreshold,
	}
}

// StatementConfig holds bank statement parsing settings
type StatementConfig struct {
	// Format is the default input format when a command is not told
	// otherwise: "csv" or "text"
	Format string `yaml:"format"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LOG_LEVEL})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	return &Config{
		Matching: MatchingConfig{
			NameThreshold:      getEnvInt("RECON_NAME_THRESHOLD", 80),
			AmountTolerance:    getEnvFloat("RECON_AMOUNT_TOLERANCE", 0.01),
			DateRangeDays:      getEnvInt("RECON_DATE_RANGE_DAYS", 3),
			AutoMatchThreshold: getEnvInt("RECON_AUTO_MATCH_THRESHOLD", 90),
		},
		Statement: StatementConfig{
			Format: getEnv("STATEMENT_FORMAT", "csv"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		var result float64
		if _, err := fmt.Sscanf(val, "%g", &result); err == nil {
			return result
		}
	}
	return fallback
}
