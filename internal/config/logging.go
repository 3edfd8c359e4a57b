package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a human-readable debug logger in development and a
// JSON info logger everywhere else.
func NewLogger(dev bool, w io.Writer) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
