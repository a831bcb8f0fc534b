package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestConfigureWriter(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	ConfigureWriter(&buf, "WARN")

	slog.Info("hidden")
	slog.Warn("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")

	buf.Reset()
	SetLevel(slog.LevelDebug)
	slog.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestConfigureWriter_EnvFallback(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	t.Setenv("LOG_LEVEL", "ERROR")

	var buf bytes.Buffer
	ConfigureWriter(&buf, "")

	slog.Warn("suppressed")
	assert.Empty(t, buf.String())
}
