// internal/api/v2/api.go
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tphakala/potability-go/internal/buildinfo"
	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/predictor"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// requestTimeout bounds store and model calls made on behalf of one request.
const requestTimeout = 10 * time.Second

// RecordPublisher forwards stored records to downstream consumers. It must
// not fail the request; implementations log their own errors.
type RecordPublisher interface {
	PublishRecord(ctx context.Context, record *datastore.WaterQuality)
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	DS        datastore.Interface
	Predictor predictor.Predictor
	Settings  *conf.Settings
	Publisher RecordPublisher
	Build     *buildinfo.Context
	logger    logger.Logger
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithPublisher publishes every stored record.
func WithPublisher(p RecordPublisher) Option {
	return func(c *Controller) {
		c.Publisher = p
	}
}

// WithLogger sets the API logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithBuildInfo sets the build metadata reported by the health endpoint.
func WithBuildInfo(b *buildinfo.Context) Option {
	return func(c *Controller) {
		c.Build = b
	}
}

// New creates a new API controller and registers its routes on e.
func New(e *echo.Echo, ds datastore.Interface, p predictor.Predictor, settings *conf.Settings, opts ...Option) (*Controller, error) {
	if ds == nil {
		return nil, errors.Newf("datastore is required").Component("api").Category(errors.CategoryConfiguration).Build()
	}
	if p == nil {
		return nil, errors.Newf("predictor is required").Component("api").Category(errors.CategoryConfiguration).Build()
	}

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Predictor: p,
		Settings:  settings,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Global().Module("api")
	}
	if c.Build == nil {
		c.Build = buildinfo.New()
	}

	c.Group = e.Group("/api/v2")
	c.initRoutes()
	return c, nil
}

// router is the route registration surface shared by *echo.Echo and *echo.Group.
type router interface {
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// initRoutes registers the record endpoints at the root and under /api/v2.
func (c *Controller) initRoutes() {
	c.Group.GET("/health", c.HealthCheck)

	for _, r := range []router{c.Echo, c.Group} {
		r.POST("/predict", c.Predict)
		r.GET("/water_quality", c.ListWaterQuality)
		r.DELETE("/water_quality/:id", c.DeleteWaterQuality)
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error         string                    `json:"error"`
	Message       string                    `json:"message"`
	Code          int                       `json:"code"`
	CorrelationID string                    `json:"correlation_id"` // Unique identifier for tracking this error
	Fields        []waterquality.FieldError `json:"fields,omitempty"`
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int, correlationID string) *ErrorResponse {
	if correlationID == "" {
		correlationID = uuid.NewString()[:8]
	}

	errorStr := message
	if err != nil {
		errorStr = err.Error()
	}

	resp := &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}

	var verr *waterquality.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	return resp
}

// HandleError logs err and writes an ErrorResponse with the given status.
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code, ctx.Response().Header().Get(echo.HeaderXRequestID))

	fields := []logger.Field{
		logger.String("correlation_id", errorResp.CorrelationID),
		logger.String("message", message),
		logger.Int("code", code),
		logger.String("path", ctx.Request().URL.Path),
		logger.String("method", ctx.Request().Method),
		logger.String("ip", ctx.RealIP()),
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}

	log := c.logger.WithContext(ctx.Request().Context())
	if code >= http.StatusInternalServerError {
		log.Error("API error", fields...)
	} else {
		log.Debug("API client error", fields...)
	}

	return ctx.JSON(code, errorResp)
}

// errorStatus maps an error to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, waterquality.ErrMalformed):
		return http.StatusBadRequest
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseID parses a positive record identifier.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
