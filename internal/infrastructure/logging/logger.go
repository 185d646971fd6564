// Package logging provides structured logging utilities.
//
// Console logs are formatted as:
// HH:MM:SS LEVEL  [system] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/finclear/reconcile-backend/internal/infrastructure/config"
)

// systemKey is the attribute that becomes the bracket prefix
const systemKey = "system"

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	// Parse log level
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Machine-readable output for log shippers, console style otherwise.
	// Log lines go to stderr so report JSON on stdout stays clean.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = NewConsoleHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g., "recon", "statement")
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	logger := NewLogger(cfg)
	return logger.With(systemKey, system)
}
