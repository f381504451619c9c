package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T) (*bytes.Buffer, func()) {
	t.Helper()
	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	return &buf, func() {
		w.Close()
		os.Stdout = original
		<-done
	}
}

func TestNewConsoleLoggerWritesLevelAndMessage(t *testing.T) {
	buf, cleanup := captureStdout(t)
	defer cleanup()

	l, err := New(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)

	l.Info("navigated to checkout")
	Sync(l)
	cleanup()

	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "navigated to checkout")
}

func TestNewJSONLoggerProducesValidJSON(t *testing.T) {
	buf, cleanup := captureStdout(t)
	defer cleanup()

	l, err := New(Config{Level: "info", Format: "json"})
	require.NoError(t, err)

	l.Warn("retrying after timeout")
	Sync(l)
	cleanup()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "retrying after timeout", entry["msg"])
}

func TestNewWritesToRotatingFileWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/flashloop.log"

	l, err := New(Config{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	l.Error("fatal action error")
	Sync(l)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "fatal action error")
}

func TestConfigDefaultsAppliedWhenUnset(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, 100, cfg.MaxSizeMB)
}
