// Package telemetry wires structured logging for the daemon.
package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process-wide slog.Logger: JSON records on stdout at
// the configured level, tagged with the owning component.
func NewLogger(level, component string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(h).With(slog.String("component", component))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
