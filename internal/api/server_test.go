package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability"
	"github.com/tphakala/potability-go/internal/predictor"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()

	s := &conf.Settings{}
	s.WebServer.Listen = "127.0.0.1:0"
	s.Telemetry.Enabled = true
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = t.TempDir() + "/potability.db"
	s.Model.Type = conf.ModelTypeTree
	s.Model.Path = "../../model/water_quality_tree.json"
	return s
}

func newTestServer(t *testing.T, settings *conf.Settings) *Server {
	t.Helper()

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	store, err := datastore.New(settings, datastore.WithLogger(testLogger()), datastore.WithMetrics(m.Datastore))
	require.NoError(t, err)
	require.NoError(t, store.Open())
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	model, err := predictor.New(&settings.Model, predictor.WithLogger(testLogger()), predictor.WithMetrics(m.Predictor))
	require.NoError(t, err)

	s, err := New(settings,
		WithLogger(testLogger()),
		WithDataStore(store),
		WithPredictor(model),
		WithMetrics(m))
	require.NoError(t, err)
	return s
}

func TestConfigFromSettingsDefaults(t *testing.T) {
	settings := &conf.Settings{}
	settings.WebServer.Listen = ":8000"

	cfg := ConfigFromSettings(settings)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.WriteTimeout)
	require.NoError(t, cfg.Validate())

	cfg.Listen = "8000"
	require.Error(t, cfg.Validate())

	cfg.Listen = ":8000"
	cfg.RateLimit = true
	require.Error(t, cfg.Validate(), "rate limit without rps")
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	settings := testSettings(t)
	_, err := New(settings, WithLogger(testLogger()))
	require.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, testSettings(t))

	body := `{"ph":7,"hardness":150,"solids":20000,"chloramines":7,"sulfate":300,"conductivity":500,"organic_carbon":15,"trihalomethanes":80,"turbidity":4}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="POST",path="/predict",status_code="200"} 1`)
	assert.Contains(t, rec.Body.String(), "potability_predictions_total")
	assert.Contains(t, rec.Body.String(), "datastore_operations_total")
}

func TestServerOpenAPIDocument(t *testing.T) {
	s := newTestServer(t, testSettings(t))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
	assert.Equal(t, "Water Quality API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)
	assert.Contains(t, doc.Paths["/predict"], "post")
	assert.Contains(t, doc.Paths["/water_quality"], "get")
	assert.Contains(t, doc.Paths["/water_quality/{id}"], "delete")

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/water_quality/{id}"`)
}

func TestServerMetricsDisabled(t *testing.T) {
	settings := testSettings(t)
	settings.Telemetry.Enabled = false
	s := newTestServer(t, settings)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerBodyLimit(t *testing.T) {
	s := newTestServer(t, testSettings(t))

	big := `{"ph":` + strings.Repeat("1", 70*1024) + `}`
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(big))
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServerStartAndShutdown(t *testing.T) {
	s := newTestServer(t, testSettings(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	url := fmt.Sprintf("http://%s/api/v2/health", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStartInvalidAddress(t *testing.T) {
	settings := testSettings(t)
	s := newTestServer(t, settings)
	s.config.Listen = "127.0.0.1:-1"

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
}
