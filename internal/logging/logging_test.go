package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := newLogger(&buf, "info", "", 1)
	require.NoError(t, err)
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("point created", "point_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "point created", entry["msg"])
	assert.EqualValues(t, 7, entry["point_id"])
}

func TestNewWritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "ecoleta.log")

	var buf bytes.Buffer
	logger, cleanup, err := newLogger(&buf, "debug", logFile, 1)
	require.NoError(t, err)

	logger.Info("hello")
	cleanup()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
