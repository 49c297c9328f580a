package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DatastoreMetrics contains Prometheus metrics for record store operations.
type DatastoreMetrics struct {
	dbOperationsTotal       *prometheus.CounterVec
	dbOperationDuration     *prometheus.HistogramVec
	dbTableRowCountGauge    *prometheus.GaugeVec
	dbConnectionsOpen       prometheus.Gauge
	dbConnectionsInUse      prometheus.Gauge
	maintenanceRunsTotal    *prometheus.CounterVec
	maintenanceLastRunGauge prometheus.Gauge

	collectors []prometheus.Collector
}

// NewDatastoreMetrics creates datastore metrics and registers them with registry.
func NewDatastoreMetrics(registry *prometheus.Registry) (*DatastoreMetrics, error) {
	m := &DatastoreMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register datastore metrics: %w", err)
	}
	return m, nil
}

func (m *DatastoreMetrics) initMetrics() {
	m.dbOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "status"},
	)
	m.dbOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datastore_operation_duration_seconds",
			Help:    "Time taken by record store operations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
		},
		[]string{"operation"},
	)
	m.dbTableRowCountGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "datastore_table_rows",
			Help: "Number of rows per table, refreshed by maintenance",
		},
		[]string{"table"},
	)
	m.dbConnectionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datastore_connections_open",
		Help: "Open database connections",
	})
	m.dbConnectionsInUse = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datastore_connections_in_use",
		Help: "Database connections currently in use",
	})
	m.maintenanceRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_maintenance_runs_total",
			Help: "Scheduled maintenance runs partitioned by status",
		},
		[]string{"status"},
	)
	m.maintenanceLastRunGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "datastore_maintenance_last_run_timestamp_seconds",
		Help: "Unix time of the last maintenance run",
	})

	m.collectors = []prometheus.Collector{
		m.dbOperationsTotal,
		m.dbOperationDuration,
		m.dbTableRowCountGauge,
		m.dbConnectionsOpen,
		m.dbConnectionsInUse,
		m.maintenanceRunsTotal,
		m.maintenanceLastRunGauge,
	}
}

// Describe implements the Collector interface
func (m *DatastoreMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *DatastoreMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation records a store operation outcome and its duration.
func (m *DatastoreMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.dbOperationsTotal.WithLabelValues(operation, status).Inc()
	m.dbOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetRowCount updates the row count gauge for table.
func (m *DatastoreMetrics) SetRowCount(table string, rows int64) {
	if m == nil {
		return
	}
	m.dbTableRowCountGauge.WithLabelValues(table).Set(float64(rows))
}

// UpdateConnectionMetrics records connection pool usage.
func (m *DatastoreMetrics) UpdateConnectionMetrics(open, inUse int) {
	if m == nil {
		return
	}
	m.dbConnectionsOpen.Set(float64(open))
	m.dbConnectionsInUse.Set(float64(inUse))
}

// RecordMaintenance records a maintenance run.
func (m *DatastoreMetrics) RecordMaintenance(err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.maintenanceRunsTotal.WithLabelValues(status).Inc()
	m.maintenanceLastRunGauge.SetToCurrentTime()
}
