// Package logging configures the process-wide slog logger, grounded on the
// logger setup the config/CLI teacher uses: a tint handler writing to
// stderr with a configurable level.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs a tint-backed slog.Logger as the default logger for the
// process and returns it so callers can also thread it explicitly (for
// example into taskbatch.WithLogger).
func Setup(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
