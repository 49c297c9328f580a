package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(*Settings) {}},
		{
			name:    "bad listen address",
			mutate:  func(s *Settings) { s.WebServer.Listen = "8000" },
			wantErr: "listen address",
		},
		{
			name: "rate limit without rps",
			mutate: func(s *Settings) {
				s.WebServer.RateLimit.Enabled = true
				s.WebServer.RateLimit.Burst = 5
			},
			wantErr: "rps",
		},
		{
			name:    "auto type with unknown extension",
			mutate:  func(s *Settings) { s.Model.Path = "model.pkl" },
			wantErr: "cannot infer backend",
		},
		{
			name:    "explicit tree type accepts any path",
			mutate:  func(s *Settings) { s.Model.Type = ModelTypeTree; s.Model.Path = "model.bin" },
			wantErr: "",
		},
		{
			name:    "unknown model type",
			mutate:  func(s *Settings) { s.Model.Type = "onnx" },
			wantErr: "not supported",
		},
		{
			name:    "threshold out of range",
			mutate:  func(s *Settings) { s.Model.Threshold = 1 },
			wantErr: "threshold",
		},
		{
			name:    "both stores enabled",
			mutate:  func(s *Settings) { s.Output.MySQL.Enabled = true },
			wantErr: "only one of",
		},
		{
			name:    "no store enabled",
			mutate:  func(s *Settings) { s.Output.SQLite.Enabled = false },
			wantErr: "must be enabled",
		},
		{
			name:    "bad cron schedule",
			mutate:  func(s *Settings) { s.Maintenance.Schedule = "every hour" },
			wantErr: "maintenance schedule",
		},
		{
			name: "mqtt without broker scheme",
			mutate: func(s *Settings) {
				s.MQTT.Enabled = true
				s.MQTT.Broker = "localhost"
				s.MQTT.Topic = "potability/records"
			},
			wantErr: "mqtt broker",
		},
		{
			name:    "sentry without dsn",
			mutate:  func(s *Settings) { s.Sentry.Enabled = true },
			wantErr: "sentry dsn",
		},
		{
			name:    "unknown log level",
			mutate:  func(s *Settings) { s.Logging.Level = "verbose" },
			wantErr: "logging level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSettings(t)
			tt.mutate(s)
			err := ValidateSettings(s)

			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateSettingsCollectsAllErrors(t *testing.T) {
	t.Parallel()

	s := validSettings(t)
	s.WebServer.Listen = ""
	s.Model.Path = ""
	s.Logging.Level = "loud"

	err := ValidateSettings(s)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
}
