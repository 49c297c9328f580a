package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PredictorMetrics contains Prometheus metrics for the potability classifier.
type PredictorMetrics struct {
	PredictionTotal    *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec
	PredictionLabels   *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	ModelLoaded        *prometheus.GaugeVec

	collectors []prometheus.Collector
}

// NewPredictorMetrics creates predictor metrics and registers them with registry.
func NewPredictorMetrics(registry *prometheus.Registry) (*PredictorMetrics, error) {
	m := &PredictorMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register predictor metrics: %w", err)
	}
	return m, nil
}

func (m *PredictorMetrics) initMetrics() {
	m.PredictionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potability_predictions_total",
			Help: "Total number of prediction requests",
		},
		[]string{"backend", "status"},
	)
	m.PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "potability_prediction_duration_seconds",
			Help:    "Time taken to run the classifier",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		},
		[]string{"backend"},
	)
	m.PredictionLabels = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potability_prediction_labels_total",
			Help: "Predictions partitioned by resulting label",
		},
		[]string{"label"},
	)
	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potability_prediction_cache_lookups_total",
			Help: "Prediction cache lookups partitioned by result",
		},
		[]string{"result"},
	)
	m.ModelLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "potability_model_loaded",
			Help: "1 when the model is loaded, labelled with backend and artifact name",
		},
		[]string{"backend", "model"},
	)

	m.collectors = []prometheus.Collector{
		m.PredictionTotal,
		m.PredictionDuration,
		m.PredictionLabels,
		m.CacheLookups,
		m.ModelLoaded,
	}
}

// Describe implements the prometheus.Collector interface.
func (m *PredictorMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface.
func (m *PredictorMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordPrediction records one classifier invocation. label is ignored when err is non-nil.
func (m *PredictorMetrics) RecordPrediction(backend string, label int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.PredictionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		m.PredictionTotal.WithLabelValues(backend, StatusError).Inc()
		return
	}
	m.PredictionTotal.WithLabelValues(backend, StatusSuccess).Inc()
	m.PredictionLabels.WithLabelValues(fmt.Sprint(label)).Inc()
}

// RecordCacheLookup records a prediction cache hit or miss.
func (m *PredictorMetrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheLookups.WithLabelValues(CacheHit).Inc()
		return
	}
	m.CacheLookups.WithLabelValues(CacheMiss).Inc()
}

// SetModelLoaded flags the model as loaded or unloaded.
func (m *PredictorMetrics) SetModelLoaded(backend, model string, loaded bool) {
	if m == nil {
		return
	}
	v := 0.0
	if loaded {
		v = 1
	}
	m.ModelLoaded.WithLabelValues(backend, model).Set(v)
}
