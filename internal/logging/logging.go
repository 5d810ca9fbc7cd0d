// Package logging builds the structured loggers used by the commands.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel is the environment variable holding the log level.
const EnvLevel = "BLUEPRINT_LOG_LEVEL"

// NewLogger returns a structured slog.Logger with the given level, writing
// JSON to w.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// ParseLevel maps debug|info|warn|error to a slog level. Anything else,
// including the empty string, is def.
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// FromEnv returns a stderr logger whose level comes from EnvLevel.
func FromEnv(def slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, ParseLevel(os.Getenv(EnvLevel), def))
}
