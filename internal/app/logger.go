package app

import (
	"io"
	"log/slog"
	"os"
)

// newLogger creates a logger writing to outW. It does not touch the global
// logger.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

// logOutput picks where logs go. The UI owns the terminal, so without a log
// file its logs are dropped; headless runs log to stderr.
func logOutput(cfg *Config) (io.Writer, func() error, error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
	if cfg.Eval {
		return os.Stderr, func() error { return nil }, nil
	}
	return io.Discard, func() error { return nil }, nil
}
