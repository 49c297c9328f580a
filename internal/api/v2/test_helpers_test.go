package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/logger"
)

const validBody = `{"ph":7.0,"hardness":150,"solids":20000,"chloramines":7,"sulfate":300,` +
	`"conductivity":500,"organic_carbon":15,"trihalomethanes":80,"turbidity":4}`

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// setupTestEnvironment builds a controller backed by mocks.
func setupTestEnvironment(t *testing.T, opts ...Option) (*echo.Echo, *MockDataStore, *MockPredictor, *Controller) {
	t.Helper()

	e := echo.New()
	mockDS := &MockDataStore{}
	mockPredictor := &MockPredictor{}

	opts = append([]Option{WithLogger(testLogger())}, opts...)
	controller, err := New(e, mockDS, mockPredictor, &conf.Settings{}, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		mockDS.AssertExpectations(t)
		mockPredictor.AssertExpectations(t)
	})
	return e, mockDS, mockPredictor, controller
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
