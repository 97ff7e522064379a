package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupGroupsRecords(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	got, logger := Setup(handler, "eval")
	assert.Equal(t, handler, got)

	logger.Debug("artifact defined", "name", "f")
	assert.Contains(t, buf.String(), "eval.name=f")
	assert.Contains(t, buf.String(), `msg="artifact defined"`)
}

func TestSetupWithoutGroup(t *testing.T) {
	var buf bytes.Buffer
	_, logger := Setup(slog.NewTextHandler(&buf, nil), "")
	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), " k=v")
}

func TestSetupNilHandler(t *testing.T) {
	handler, logger := Setup(nil, "x")
	require.NotNil(t, handler)
	require.NotNil(t, logger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
