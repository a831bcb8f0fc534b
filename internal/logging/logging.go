// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevel = new(slog.LevelVar)

// Configure sets the default logger to a text handler on stdout. level is
// one of DEBUG, INFO, WARN or ERROR; LOG_LEVEL is used when level is empty,
// and anything unrecognized means INFO.
func Configure(level string) {
	ConfigureWriter(os.Stdout, level)
}

// ConfigureWriter is Configure with a custom destination
func ConfigureWriter(w io.Writer, level string) {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	logLevel.Set(ParseLevel(level))

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of the logger installed by Configure
func SetLevel(level slog.Level) {
	logLevel.Set(level)
}
