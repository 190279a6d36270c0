package logging

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/mirelo-app/tutor-server/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewLoggerStdoutOnly(t *testing.T) {
	logger, err := NewLogger(config.LoggingConfig{Level: "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger")
	}
}

func TestNewLoggerRejectsBadRotation(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", LogDir: t.TempDir(), MaxSizeMB: 0})
	if err == nil {
		t.Fatalf("expected error for invalid rotation settings")
	}
}

func TestNewLoggerFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(config.LoggingConfig{
		Level:      "info",
		LogDir:     dir,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("test_event")
}
