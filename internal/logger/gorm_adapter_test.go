package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormLoggerAdapterTrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   LogLevel
		elapsed time.Duration
		err     error
		want    string
		wantNot string
	}{
		{name: "query error logged at warn", level: LogLevelWarn, err: errors.New("disk I/O error"), want: `msg="query failed"`},
		{name: "record not found stays quiet", level: LogLevelWarn, err: gorm.ErrRecordNotFound, wantNot: "query failed"},
		{name: "slow query logged at warn", level: LogLevelWarn, elapsed: time.Second, want: `msg="slow query"`},
		{name: "normal query at trace", level: LogLevelTrace, want: "level=TRACE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			adapter := NewGormLoggerAdapter(NewSlogLogger(&buf, tt.level, time.UTC), 100*time.Millisecond)
			adapter.Trace(context.Background(), time.Now().Add(-tt.elapsed), func() (string, int64) {
				return "SELECT * FROM water_qualities", 3
			}, tt.err)

			if tt.want != "" {
				assert.Contains(t, buf.String(), tt.want)
			}
			if tt.wantNot != "" {
				assert.NotContains(t, buf.String(), tt.wantNot)
			}
		})
	}
}
