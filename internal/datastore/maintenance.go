package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
)

// maintenanceTimeout bounds a single maintenance run.
const maintenanceTimeout = 2 * time.Minute

// Maintenance periodically refreshes table statistics and record store gauges.
type Maintenance struct {
	store   Interface
	metrics *metrics.DatastoreMetrics
	log     logger.Logger

	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
}

// NewMaintenance validates schedule and returns a stopped maintenance runner.
func NewMaintenance(store Interface, schedule string, m *metrics.DatastoreMetrics, log logger.Logger) (*Maintenance, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("schedule", schedule).
			Build()
	}
	if log == nil {
		log = logger.Global().Module("datastore").Module("maintenance")
	}
	return &Maintenance{store: store, metrics: m, log: log, schedule: schedule}, nil
}

// Start schedules maintenance runs. Calling Start twice is a no-op.
func (m *Maintenance) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(m.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), maintenanceTimeout)
		defer cancel()
		_ = m.RunOnce(ctx)
	}); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("schedule", m.schedule).
			Build()
	}
	c.Start()
	m.cron = c
	m.log.Info("maintenance scheduled", logger.String("schedule", m.schedule))
	return nil
}

// Stop cancels future runs and waits for a running job to finish.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	m.log.Debug("maintenance stopped")
}

// RunOnce refreshes the row count gauge, optimizes the store and samples
// connection pool statistics.
func (m *Maintenance) RunOnce(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		m.metrics.RecordMaintenance(err)
		if err != nil {
			m.log.Warn("maintenance failed", logger.Error(err))
			return
		}
		m.log.Debug("maintenance completed", logger.Duration("elapsed", time.Since(start)))
	}()

	count, err := m.store.Count(ctx)
	if err != nil {
		return err
	}
	m.metrics.SetRowCount(WaterQuality{}.TableName(), count)

	if err := m.store.Optimize(ctx); err != nil {
		return err
	}

	if sp, ok := m.store.(StatsProvider); ok {
		if stats, statErr := sp.Stats(); statErr == nil {
			m.metrics.UpdateConnectionMetrics(stats.OpenConnections, stats.InUse)
		}
	}
	return nil
}
