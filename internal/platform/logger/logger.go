package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/carehire/carehire-api/internal/config"
)

// ServiceName is attached to every record written by loggers built with New.
const ServiceName = "carehire-api"

// ParseLevel converts a configured level name (case-insensitive) to a slog.Level.
// The second result is false for unrecognised names, in which case LevelInfo is returned.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New creates a JSON logger writing to out at the configured level and tagged
// with the service name and environment.
func New(out io.Writer, cfg config.ServerConfig) *slog.Logger {
	level, ok := ParseLevel(cfg.LogLevel)
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	l := slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("environment", cfg.Environment),
	)
	if !ok {
		l.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}
	return l
}

// Setup initializes the application's logging system based on the provided
// configuration. It creates a structured JSON logger writing to stdout and
// sets it as the default logger, so package-level slog calls share it.
func Setup(cfg config.ServerConfig) *slog.Logger {
	l := New(os.Stdout, cfg)
	slog.SetDefault(l)
	return l
}
