package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tphakala/potability-go/internal/api/docs"
	mw "github.com/tphakala/potability-go/internal/api/middleware"
	v2 "github.com/tphakala/potability-go/internal/api/v2"
	"github.com/tphakala/potability-go/internal/buildinfo"
	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability"
	"github.com/tphakala/potability-go/internal/observability/metrics"
	"github.com/tphakala/potability-go/internal/predictor"
)

// Server is the HTTP server for the potability API.
// It manages the Echo framework instance, middleware, and all HTTP routes.
type Server struct {
	// Core components
	echo     *echo.Echo
	config   *Config
	settings *conf.Settings
	log      logger.Logger

	// Dependencies
	dataStore datastore.Interface
	predictor predictor.Predictor
	publisher v2.RecordPublisher
	metrics   *observability.Metrics
	build     *buildinfo.Context

	// API controller
	apiController *v2.Controller

	// Lifecycle management
	mu       sync.Mutex
	listener net.Listener
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the logger for the server.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

// WithDataStore sets the record store.
func WithDataStore(ds datastore.Interface) ServerOption {
	return func(s *Server) { s.dataStore = ds }
}

// WithPredictor sets the classifier.
func WithPredictor(p predictor.Predictor) ServerOption {
	return func(s *Server) { s.predictor = p }
}

// WithPublisher publishes stored records.
func WithPublisher(p v2.RecordPublisher) ServerOption {
	return func(s *Server) { s.publisher = p }
}

// WithMetrics sets the metrics instance.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithBuildInfo sets build metadata for the health endpoint.
func WithBuildInfo(b *buildinfo.Context) ServerOption {
	return func(s *Server) { s.build = b }
}

// New creates a new HTTP server with the given settings and options.
func New(settings *conf.Settings, opts ...ServerOption) (*Server, error) {
	config := ConfigFromSettings(settings)
	if err := config.Validate(); err != nil {
		return nil, errors.New(fmt.Errorf("invalid server configuration: %w", err)).
			Component("api").
			Category(errors.CategoryConfiguration).
			Build()
	}

	s := &Server{
		config:   config,
		settings: settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Global().Module("api")
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout
	s.echo.Server.Handler = s.echo

	s.setupMiddleware()

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.log.Info("HTTP server initialized",
		logger.String("address", config.Listen),
		logger.Bool("rate_limit", config.RateLimit),
		logger.Bool("metrics", config.Metrics))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.log.WithContext(c.Request().Context()).Error("panic recovered",
				logger.Error(err),
				logger.String("path", c.Request().URL.Path))
			return err
		},
	}))

	s.echo.Use(mw.NewRequestID())
	s.echo.Use(mw.NewRequestLogger(s.log))

	httpMetrics := s.httpMetrics()
	s.echo.Use(mw.NewMetrics(httpMetrics))

	s.echo.Use(echomw.BodyLimit(s.config.BodyLimit))

	if s.config.RateLimit {
		s.echo.Use(mw.NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst, httpMetrics))
	}
}

func (s *Server) httpMetrics() *metrics.HTTPMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics.HTTP
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() error {
	apiController, err := v2.New(s.echo, s.dataStore, s.predictor, s.settings,
		v2.WithLogger(s.log),
		v2.WithBuildInfo(s.build),
		v2.WithPublisher(s.publisher),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize API v2: %w", err)
	}
	s.apiController = apiController

	if s.config.Metrics && s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler(s.log)))
	}

	// API description: raw document and the Swagger UI
	s.echo.GET("/openapi.json", openAPIDocument)
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}

// openAPIDocument serves the generated OpenAPI (Swagger 2.0) document.
func openAPIDocument(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(docs.SwaggerInfo.ReadDoc()))
}

// Start binds the listen address and serves requests until ctx is
// canceled or Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.config.Listen)
	if err != nil {
		return errors.New(err).
			Component("api").
			Category(errors.CategoryNetwork).
			Context("listen", s.config.Listen).
			Build()
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It blocks until the server stops.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.echo.Listener = ln
	s.mu.Unlock()

	s.log.Info("HTTP server listening", logger.String("address", ln.Addr().String()))

	if err := s.echo.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}

// APIController returns the v2 API controller.
func (s *Server) APIController() *v2.Controller {
	return s.apiController
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
