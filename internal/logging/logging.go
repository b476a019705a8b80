// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/rz-ai/aicheck/internal/config"
)

// Setup builds a logger from config and installs it as the slog default.
// Diagnostics go to w (stderr in the binary) so stdout stays reserved for
// report payloads.
func Setup(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
