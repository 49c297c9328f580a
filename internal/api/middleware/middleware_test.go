package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

func newTestEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "boom") })
	return e
}

func serve(e *echo.Echo, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestLoggerWritesRequests(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewSlogLogger(&buf, logger.LogLevelInfo, time.UTC)

	e := newTestEcho(NewRequestID(), NewRequestLogger(log))
	rec := serve(e, "/ok", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "uri=/ok")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "trace_id="+rec.Header().Get(echo.HeaderXRequestID))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	e := newTestEcho(NewRequestID())

	rec := serve(e, "/ok", map[string]string{echo.HeaderXRequestID: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(e, "/ok", nil)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36, "generated IDs are UUIDs")
}

func TestMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewHTTPMetrics(registry)
	require.NoError(t, err)

	e := newTestEcho(NewMetrics(m))
	serve(e, "/ok", nil)
	serve(e, "/ok", nil)
	serve(e, "/boom", nil)

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/boom",status_code="502"} 1
http_requests_total{method="GET",path="/ok",status_code="200"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "http_requests_total"))
}

func TestRateLimiter(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := metrics.NewHTTPMetrics(registry)
	require.NoError(t, err)

	e := newTestEcho(NewRateLimiter(0.001, 2, m))

	assert.Equal(t, http.StatusOK, serve(e, "/ok", nil).Code)
	assert.Equal(t, http.StatusOK, serve(e, "/ok", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "/ok", nil).Code)

	expected := `
# HELP http_rate_limited_total Requests rejected by the rate limiter
# TYPE http_rate_limited_total counter
http_rate_limited_total 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "http_rate_limited_total"))
}
