// Package telemetry provides privacy-compliant error tracking with Sentry.
package telemetry

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/potability-go/internal/buildinfo"
	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
)

// flushTimeout bounds how long shutdown waits for buffered events.
const flushTimeout = 2 * time.Second

var sentryInitialized atomic.Bool

// InitSentry initializes the Sentry SDK and registers it as the error
// reporter. It is a no-op unless sentry.enabled is set. The returned function
// flushes buffered events and must be called on shutdown.
func InitSentry(settings *conf.Settings, build *buildinfo.Context, log logger.Logger) (func(), error) {
	if log == nil {
		log = logger.Global().Module("telemetry")
	}
	if !settings.Sentry.Enabled {
		log.Debug("sentry telemetry is disabled")
		return func() {}, nil
	}

	environment := settings.Sentry.Environment
	if environment == "" {
		environment = "production"
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      environment,
		ServerName:       "", // hostnames are not reported
		Release:          fmt.Sprintf("potability@%s", build.Version),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return func() {}, errors.New(fmt.Errorf("sentry initialization failed: %w", err)).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("instance_id", build.InstanceID)
		scope.SetTag("store", storeName(settings))
		scope.SetTag("model_type", settings.Model.Type)
	})

	errors.SetPrivacyScrubber(ScrubMessage)
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	sentryInitialized.Store(true)

	log.Info("sentry telemetry initialized",
		logger.String("environment", environment),
		logger.String("release", build.Version))

	return func() {
		errors.SetTelemetryReporter(nil)
		sentry.Flush(flushTimeout)
	}, nil
}

// IsInitialized reports whether Sentry has been initialized.
func IsInitialized() bool {
	return sentryInitialized.Load()
}

func storeName(settings *conf.Settings) string {
	switch {
	case settings.Output.SQLite.Enabled:
		return "sqlite"
	case settings.Output.MySQL.Enabled:
		return "mysql"
	default:
		return "none"
	}
}

// applyPrivacyFilters strips host and user data from a Sentry event
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	event.Message = ScrubMessage(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = ScrubMessage(event.Exception[i].Value)
	}
	return event
}
