package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_TextHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestSetup_JSONHandlerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Config{Level: "info", JSON: true, Output: &buf})

	logger.Info("indexed", slog.Int("documents", 42))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "indexed", record["msg"])
	assert.Equal(t, float64(42), record["documents"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}
