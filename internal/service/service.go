// Package service wires the predictor, record store and HTTP API together and
// runs them until the process receives a termination signal.
package service

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/potability-go/internal/api"
	"github.com/tphakala/potability-go/internal/buildinfo"
	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/datastore"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/mqtt"
	"github.com/tphakala/potability-go/internal/observability"
	"github.com/tphakala/potability-go/internal/predictor"
	"github.com/tphakala/potability-go/internal/telemetry"
)

const (
	shutdownTimeout = 15 * time.Second
	connectTimeout  = 10 * time.Second
)

// Run starts the service and blocks until ctx is canceled or SIGINT/SIGTERM
// is received, then shuts every component down in reverse start order.
func Run(ctx context.Context, settings *conf.Settings) error {
	central, err := logger.NewCentralLogger(settings.LoggingConfig())
	if err != nil {
		return err
	}
	logger.SetGlobal(central)
	defer func() { _ = central.Close() }()

	log := central.Module("service")
	build := buildinfo.New()
	log.Info("starting potability service",
		logger.String("version", build.Version),
		logger.String("build_date", build.BuildDate),
		logger.String("instance_id", build.InstanceID))

	flush, err := telemetry.InitSentry(settings, build, central.Module("telemetry"))
	if err != nil {
		log.Warn("error telemetry disabled", logger.Error(err))
	} else {
		defer flush()
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	model, err := predictor.New(&settings.Model,
		predictor.WithLogger(central.Module("predictor")),
		predictor.WithMetrics(m.Predictor))
	if err != nil {
		return err
	}
	defer closePredictor(model, log)

	store, err := datastore.New(settings,
		datastore.WithLogger(central.Module("datastore")),
		datastore.WithMetrics(m.Datastore))
	if err != nil {
		return err
	}
	if err := store.Open(); err != nil {
		return err
	}
	defer closeDataStore(store, log)

	if settings.Maintenance.Enabled {
		maint, err := datastore.NewMaintenance(store, settings.Maintenance.Schedule, m.Datastore, central.Module("maintenance"))
		if err != nil {
			return err
		}
		if err := maint.Start(); err != nil {
			return err
		}
		defer maint.Stop()
	}

	serverOpts := []api.ServerOption{
		api.WithLogger(central.Module("api")),
		api.WithDataStore(store),
		api.WithPredictor(model),
		api.WithMetrics(m),
		api.WithBuildInfo(build),
	}

	if settings.MQTT.Enabled {
		client, err := mqtt.NewClient(settings, m.MQTT, central.Module("mqtt"))
		if err != nil {
			return err
		}
		defer client.Disconnect()
		connectMQTT(ctx, client, log)
		publisher := mqtt.NewPublisher(client, settings.MQTT.Topic, settings.Main.Name, central.Module("mqtt"))
		serverOpts = append(serverOpts, api.WithPublisher(publisher))
	}

	server, err := api.New(settings, serverOpts...)
	if err != nil {
		return err
	}

	conf.Watch(central.Module("config"), func(updated *conf.Settings) {
		level := updated.LoggingConfig().Level
		if level != central.Level() {
			central.SetLevel(level)
			log.Info("log level changed", logger.String("level", level))
		}
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		return err
	}
	log.Info("service stopped")
	return nil
}

// connectMQTT makes the first connection attempt. A failure is logged and the
// client keeps retrying in the background.
func connectMQTT(ctx context.Context, client mqtt.Client, log logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		log.Warn("MQTT broker not reachable, records will not be published until it is", logger.Error(err))
	}
}

func closeDataStore(store datastore.Interface, log logger.Logger) {
	if err := store.Close(); err != nil {
		log.Error("failed to close record store", logger.Error(err))
		return
	}
	log.Info("record store closed")
}

func closePredictor(p predictor.Predictor, log logger.Logger) {
	if err := p.Close(); err != nil {
		log.Error("failed to release model", logger.Error(err))
	}
}
