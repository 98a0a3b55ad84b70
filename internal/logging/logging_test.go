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

func TestSetup(t *testing.T) {
	t.Run("stderr only", func(t *testing.T) {
		var stderr bytes.Buffer
		logger, cleanup, err := Setup(Options{Stderr: &stderr})
		require.NoError(t, err)
		defer cleanup()

		logger.Info("server starting")
		logger.Debug("hidden at info level")

		entry := decodeLast(t, &stderr)
		assert.Equal(t, "server starting", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.NotContains(t, stderr.String(), "hidden")
	})

	t.Run("stderr and file", func(t *testing.T) {
		var stderr bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "server.log")

		logger, cleanup, err := Setup(Options{Stderr: &stderr, FilePath: path})
		require.NoError(t, err)

		logger.Info("test message", "key", "value")
		cleanup()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Contains(t, stderr.String(), "test message")
	})

	t.Run("level var changes take effect", func(t *testing.T) {
		var stderr bytes.Buffer
		level := new(slog.LevelVar)
		level.Set(slog.LevelWarn)

		logger, cleanup, err := Setup(Options{Stderr: &stderr, Level: level})
		require.NoError(t, err)
		defer cleanup()

		logger.Info("dropped")
		assert.Empty(t, stderr.String())

		level.Set(slog.LevelDebug)
		logger.Debug("kept")
		assert.Contains(t, stderr.String(), "kept")
	})

	t.Run("secrets scrubbed in every sink", func(t *testing.T) {
		var stderr bytes.Buffer
		path := filepath.Join(t.TempDir(), "server.log")

		logger, cleanup, err := Setup(Options{Stderr: &stderr, FilePath: path})
		require.NoError(t, err)
		logger.Info("got", "prompt", "api_key=abc123")
		cleanup()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "abc123")
		assert.NotContains(t, stderr.String(), "abc123")
	})
}

func TestRunLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	RunLogger(logger, "run-1").Info("started")

	assert.Equal(t, "run-1", decodeLast(t, &buf)["run"])
}
