// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Configures the default logger from LOG_LEVEL and LOG_FORMAT for the service and CLI.

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger to write to stdout.
// LOG_LEVEL: debug, info, warn, error (default: info)
// LOG_FORMAT: text, json (default: text)
func Init() {
	InitWithWriter(os.Stdout, slog.LevelInfo)
}

// InitWithWriter configures the default logger to write to w. fallback is
// used when LOG_LEVEL is unset. The CLI logs to stderr at warn so plan
// output on stdout stays machine-readable.
func InitWithWriter(w io.Writer, fallback slog.Level) {
	level := fallback
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level = parseLevel(raw)
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
