package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// unmatchedRoute labels requests that hit no registered route, keeping path
// cardinality bounded.
const unmatchedRoute = "unmatched"

// NewMetrics records request count, latency and response size per route.
func NewMetrics(m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = unmatchedRoute
			}

			m.RecordRequest(c.Request().Method, path, status, time.Since(start), c.Response().Size)
			return err
		}
	}
}
