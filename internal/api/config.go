// Package api provides the HTTP server infrastructure for the potability service.
// JSON endpoints are organized in the v2 subpackage.
package api

import (
	"fmt"
	"net"
	"time"

	"github.com/tphakala/potability-go/internal/conf"
)

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBodyLimit       = "64K"
)

// Config holds the HTTP server configuration derived from Settings.
type Config struct {
	Listen string // host:port to bind

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Limits
	BodyLimit      string
	RateLimit      bool
	RateLimitRPS   float64
	RateLimitBurst int

	// Metrics exposes /metrics when true
	Metrics bool
}

// ConfigFromSettings builds a Config, applying defaults for unset values.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := &Config{
		Listen:          settings.WebServer.Listen,
		ReadTimeout:     settings.WebServer.ReadTimeout,
		WriteTimeout:    settings.WebServer.WriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       DefaultBodyLimit,
		RateLimit:       settings.WebServer.RateLimit.Enabled,
		RateLimitRPS:    settings.WebServer.RateLimit.RPS,
		RateLimitBurst:  settings.WebServer.RateLimit.Burst,
		Metrics:         settings.Telemetry.Enabled,
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.RateLimit && (c.RateLimitRPS <= 0 || c.RateLimitBurst < 1) {
		return fmt.Errorf("rate limit requires rps > 0 and burst >= 1")
	}
	return nil
}
