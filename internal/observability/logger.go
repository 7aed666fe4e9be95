package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the JSON logger used as slog.Default. level accepts
// debug, info, warn or error; empty picks debug in dev and info elsewhere.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(env, level),
	})

	return slog.New(NewContextHandler(handler))
}

func parseLevel(env, level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err == nil {
		return lvl
	}

	if env == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
