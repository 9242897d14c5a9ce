package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/config"
)

// NewLogger builds the process logger from the log section of the config
// and installs it as the slog default. Logs go to stderr; stdout carries
// the converted output and command summaries. An unknown level means info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

// newLogger writes JSON for format "json" and key=value text otherwise.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
