package telemetry

import (
	"io"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/buildinfo"
	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
)

func TestScrubMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{"mysql dsn", "dial app:hunter2@tcp(db:3306)/potability failed", "app:[REDACTED]@tcp(", "hunter2"},
		{"url query", "GET https://api.example.com/v1?token=abc failed", "https://api.example.com/v1?[REDACTED]", "abc"},
		{"broker credentials", "connect tcp://user:pw@broker:1883", "tcp://[REDACTED]@broker", "user:pw"},
		{"ip address", "connection refused by 10.0.0.12:3306", "[IP]:3306", "10.0.0.12"},
		{"bearer token", "Authorization: Bearer abcdef123456", "[REDACTED]", "abcdef123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScrubMessage(tt.input)
			assert.Contains(t, got, tt.contains)
			assert.NotContains(t, got, tt.absent)
		})
	}
}

func TestApplyPrivacyFilters(t *testing.T) {
	event := sentry.NewEvent()
	event.ServerName = "host-1"
	event.User = sentry.User{ID: "42", IPAddress: "192.168.1.10"}
	event.Tags = map[string]string{"hostname": "host-1", "component": "datastore"}
	event.Contexts = map[string]sentry.Context{"os": {"name": "linux"}, "model": {"backend": "tree"}}
	event.Message = "save failed for app:hunter2@tcp(db:3306)/x"

	filtered := applyPrivacyFilters(event)

	require.NotNil(t, filtered)
	assert.Empty(t, filtered.ServerName)
	assert.True(t, filtered.User.IsEmpty())
	assert.NotContains(t, filtered.Tags, "hostname")
	assert.Equal(t, "datastore", filtered.Tags["component"])
	assert.NotContains(t, filtered.Contexts, "os")
	assert.Contains(t, filtered.Contexts, "model")
	assert.NotContains(t, filtered.Message, "hunter2")
	assert.Nil(t, applyPrivacyFilters(nil))
}

func TestInitSentryDisabled(t *testing.T) {
	settings := &conf.Settings{}
	log := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)

	flush, err := InitSentry(settings, buildinfo.New(), log)
	require.NoError(t, err)
	require.NotNil(t, flush)
	flush()

	assert.False(t, IsInitialized())
	assert.Nil(t, errors.GetTelemetryReporter())
}

func TestInitSentryRejectsBadDSN(t *testing.T) {
	settings := &conf.Settings{}
	settings.Sentry.Enabled = true
	settings.Sentry.DSN = "not a dsn"
	log := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)

	_, err := InitSentry(settings, buildinfo.New(), log)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}
