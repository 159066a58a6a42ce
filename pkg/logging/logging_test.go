package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ssargent/pitkit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("json output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, config.Logging{Level: "warn", Format: "json"})
		require.NoError(t, err)

		logger.Info("dropped")
		logger.Warn("unpack failed", "size", 12)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "unpack failed", record["msg"])
		assert.Equal(t, float64(12), record["size"])
	})

	t.Run("text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, config.Logging{Level: "debug", Format: "text"})
		require.NoError(t, err)

		logger.Debug("entry", "name", "BOOT")
		assert.Contains(t, buf.String(), "name=BOOT")
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, config.Logging{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}
