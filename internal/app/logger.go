package app

import (
	"io"
	"log/slog"
)

// newLogger builds the application's logger. It does not set the global
// logger, so several Apps can log to different writers. An unknown level
// falls back to info; NewConfig rejects those before they get here.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	switch formatStr {
	case "json":
		return slog.New(slog.NewJSONHandler(outW, opts))
	default:
		return slog.New(slog.NewTextHandler(outW, opts))
	}
}
