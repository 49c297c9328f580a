package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleLoggerWritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cl, err := NewCentralLogger(&LoggingConfig{Level: "debug", Timezone: "UTC", Console: &buf})
	require.NoError(t, err)

	log := cl.Module("datastore").With(String("backend", "sqlite"))
	log.Info("record saved", Uint64("id", 42), Float64("ph", 7.123456), Error(errors.New("none")))

	out := buf.String()
	assert.Contains(t, out, "module=datastore")
	assert.Contains(t, out, "backend=sqlite")
	assert.Contains(t, out, "id=42")
	assert.Contains(t, out, "ph=7.123")
	assert.Contains(t, out, "error=none")
	assert.Contains(t, out, `msg="record saved"`)
}

func TestNestedModuleName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelInfo, time.UTC)
	log.Module("api").Module("predict").Info("done")

	assert.Contains(t, buf.String(), "module=api.predict")
}

func TestLevelFilteringAndSetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cl, err := NewCentralLogger(&LoggingConfig{Level: "warn", Console: &buf})
	require.NoError(t, err)
	log := cl.Module("predictor")

	log.Info("hidden")
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	cl.SetLevel("trace")
	assert.Equal(t, "trace", cl.Level())
	log.Trace("sql")
	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestWithContextAddsTraceID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewSlogLogger(&buf, LogLevelInfo, time.UTC)

	ctx := WithTraceID(context.Background(), "req-123")
	log.WithContext(ctx).Info("handled")
	assert.Contains(t, buf.String(), "trace_id=req-123")

	buf.Reset()
	log.WithContext(context.Background()).Info("handled")
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestFileOutputIsJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "potability.log")
	var console bytes.Buffer
	cl, err := NewCentralLogger(&LoggingConfig{
		Level:   "info",
		Console: &console,
		File:    &FileOutput{Enabled: true, Path: path, MaxSize: 1},
	})
	require.NoError(t, err)

	cl.Module("api").Info("request", Int("status", 200), Duration("latency", 1500*time.Microsecond))
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "api", entry["module"])
	assert.Equal(t, "2ms", entry["latency"])
	assert.InDelta(t, 200, entry["status"], 0)
	assert.Contains(t, console.String(), "status=200")
}

func TestInvalidTimezone(t *testing.T) {
	t.Parallel()

	_, err := NewCentralLogger(&LoggingConfig{Timezone: "Mars/Olympus"})
	require.Error(t, err)

	_, err = NewCentralLogger(nil)
	require.Error(t, err)
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, lvl := range []string{"trace", "debug", "info", "warn", "error", "WARN"} {
		assert.True(t, ValidLevel(lvl), lvl)
	}
	assert.False(t, ValidLevel("verbose"))
}
