package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriterJSON(t *testing.T) {
	buffer := &bytes.Buffer{}
	log := NewWithWriter(config.LoggingConfig{Level: "info", Format: "json"}, "slicetl", buffer)

	log.Info("file completed", zap.String("platform", "slice"), zap.Int("rows", 3))
	log.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "file completed", entry["msg"])
	assert.Equal(t, "slicetl", entry["service"])
	assert.Equal(t, "slice", entry["platform"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestNewWithWriterDebugLevel(t *testing.T) {
	buffer := &bytes.Buffer{}
	log := NewWithWriter(config.LoggingConfig{Level: "debug", Format: "console"}, "slicetl", buffer)

	log.Debug("row skipped")
	assert.Contains(t, buffer.String(), "row skipped")
}

func TestNewWithWriterBadLevelDefaultsToInfo(t *testing.T) {
	buffer := &bytes.Buffer{}
	log := NewWithWriter(config.LoggingConfig{Level: "loud"}, "slicetl", buffer)

	log.Debug("hidden")
	assert.Empty(t, buffer.String())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "slicetl.log")

	log, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1}, "slicetl")
	require.NoError(t, err)

	log.Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
