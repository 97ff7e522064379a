package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Setup returns a handler and a logger grouped under group. A nil handler
// falls back to a text handler on stderr, and the fallback is reported once.
func Setup(handler slog.Handler, group string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	var logger *slog.Logger
	if group != "" {
		logger = slog.New(handler.WithGroup(group))
	} else {
		logger = slog.New(handler)
	}

	return handler, logger
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
