package logger

import (
	"io"
	"log/slog"
	"time"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// newTextHandler returns a human-readable console handler. Timestamps are
// rendered in tz and the trace level prints as TRACE.
func newTextHandler(w io.Writer, level slog.Leveler, tz *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.In(tz).Format(consoleTimeFormat))
				}
			}
			return replaceLevelAttr(groups, a)
		},
	})
}
