package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandlerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  log.Level
	}{
		{"trace", log.DebugLevel},
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			h := TextHandler(tt.level, &bytes.Buffer{})
			logger, ok := h.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestTextHandlerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(TextHandler("debug", &buf))

	logger.Debug("entering state", "state", 2)
	assert.Contains(t, buf.String(), "entering state")
	assert.Contains(t, buf.String(), "state=2")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	h := JSONHandler("warn", &buf)

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))

	slog.New(h).Warn("ceiling reached", "transitions", 5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ceiling reached", rec["msg"])
	assert.Equal(t, 5.0, rec["transitions"])
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "text", "JSON"} {
		logger, err := New(format, "info", &bytes.Buffer{})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}

	_, err := New("xml", "info", nil)
	assert.Error(t, err)
}
