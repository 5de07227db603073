// Package logging configures structured logging for docscraper.
//
// All diagnostics go to stderr so stdout stays reserved for the
// per-configuration summary.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Output is the destination writer. Defaults to stderr.
	Output io.Writer
}

// DefaultConfig returns sensible defaults for CLI logging.
func DefaultConfig() Config {
	return Config{
		Level: "info",
	}
}

// Setup builds a logger from the configuration and installs it as the
// default slog logger.
func Setup(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
