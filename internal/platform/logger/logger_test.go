// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/platform/logger"
)

// TestParseLevel verifies that valid log levels are parsed case-insensitively.
func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
		want     slog.Level
		ok       bool
	}{
		{name: "debug level", logLevel: "debug", want: slog.LevelDebug, ok: true},
		{name: "info level", logLevel: "info", want: slog.LevelInfo, ok: true},
		{name: "warn level", logLevel: "warn", want: slog.LevelWarn, ok: true},
		{name: "error level", logLevel: "error", want: slog.LevelError, ok: true},
		{name: "case insensitive - DEBUG", logLevel: "DEBUG", want: slog.LevelDebug, ok: true},
		{name: "case insensitive - Info", logLevel: "Info", want: slog.LevelInfo, ok: true},
		{name: "invalid falls back to info", logLevel: "verbose", want: slog.LevelInfo, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := logger.ParseLevel(tc.logLevel)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

// TestNewFiltersByLevel checks that records below the configured level are dropped
// and that service metadata is attached to every record.
func TestNewFiltersByLevel(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	l := logger.New(buf, config.ServerConfig{LogLevel: "warn", Environment: "test"})

	l.Info("info test message")
	l.Warn("warn test message")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "warn test message", entries[0]["msg"])
	assert.Equal(t, logger.ServiceName, entries[0]["service"])
	assert.Equal(t, "test", entries[0]["environment"])
}

// TestNewWarnsOnInvalidLevel checks that an invalid level logs a warning and
// behaves as info.
func TestNewWarnsOnInvalidLevel(t *testing.T) {
	buf := &logger.TestLogBuffer{}
	l := logger.New(buf, config.ServerConfig{LogLevel: "invalid_level"})

	warning := buf.Find("invalid log level configured, using default level")
	require.NotNil(t, warning)
	assert.Equal(t, "invalid_level", warning["configured_level"])
	assert.Equal(t, "info", warning["default_level"])

	l.Debug("debug test message")
	l.Info("info test message")
	assert.Nil(t, buf.Find("debug test message"))
	assert.NotNil(t, buf.Find("info test message"))
}

func TestSetupSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l := logger.Setup(config.ServerConfig{LogLevel: "error"})
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
}

func TestContextHelpers(t *testing.T) {
	_, l := logger.SetupTestLogger(t)

	t.Run("round trip", func(t *testing.T) {
		reqLogger := l.With("correlation_id", "abc")
		ctx := logger.WithLogger(context.Background(), reqLogger)
		assert.Same(t, reqLogger, logger.FromContext(ctx))
		assert.Same(t, reqLogger, logger.FromContextOrDefault(ctx, l))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
		fallback := l.With("component", "test")
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("nil logger panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}

func TestRequestLoggerCarriesAttributes(t *testing.T) {
	buf, l := logger.SetupTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l.With("correlation_id", "req-1"))

	logger.FromContext(ctx).Info("handled")

	entry := buf.Find("handled")
	require.NotNil(t, entry)
	assert.Equal(t, "req-1", entry["correlation_id"])
}
