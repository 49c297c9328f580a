package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictorMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewPredictorMetrics(registry)
	require.NoError(t, err)

	m.RecordPrediction("tree", 1, time.Millisecond, nil)
	m.RecordPrediction("tree", 0, time.Millisecond, nil)
	m.RecordPrediction("tree", 0, time.Millisecond, errors.New("boom"))
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.SetModelLoaded("tree", "water_quality_tree.json", true)

	assert.InDelta(t, 2, testutil.ToFloat64(m.PredictionTotal.WithLabelValues("tree", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PredictionTotal.WithLabelValues("tree", StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PredictionLabels.WithLabelValues("1")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues(CacheMiss)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModelLoaded.WithLabelValues("tree", "water_quality_tree.json")), 0)
}

func TestDatastoreMetricsHistogram(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewDatastoreMetrics(registry)
	require.NoError(t, err)

	m.RecordOperation(OpSave, 2*time.Millisecond, nil)
	m.RecordOperation(OpSave, 3*time.Millisecond, errors.New("locked"))
	m.SetRowCount("water_qualities", 12)

	families, err := registry.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	hist := byName["datastore_operation_duration_seconds"]
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetMetric()[0].GetHistogram().GetSampleCount())

	rows := byName["datastore_table_rows"]
	require.NotNil(t, rows)
	assert.InDelta(t, 12, rows.GetMetric()[0].GetGauge().GetValue(), 0)
}

func TestHTTPMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(registry)
	require.NoError(t, err)

	m.RecordRequest("POST", "/predict", 200, 5*time.Millisecond, 18)
	m.RecordRateLimited()

	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/predict", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.rateLimitedTotal), 0)
}

func TestMQTTMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := NewMQTTMetrics(registry)
	require.NoError(t, err)

	m.UpdateConnectionStatus(true)
	m.RecordPublish(256, time.Millisecond, nil)
	m.RecordPublish(256, time.Millisecond, errors.New("timeout"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.ConnectionStatus), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.MessagesDelivered), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Errors), 0)
}

func TestNilMetricsAreSafe(t *testing.T) {
	t.Parallel()

	var p *PredictorMetrics
	var d *DatastoreMetrics
	var h *HTTPMetrics
	var q *MQTTMetrics

	assert.NotPanics(t, func() {
		p.RecordPrediction("tree", 1, time.Millisecond, nil)
		p.RecordCacheLookup(true)
		d.RecordOperation(OpGet, time.Millisecond, nil)
		d.RecordMaintenance(nil)
		h.RecordRequest("GET", "/", 200, time.Millisecond, 0)
		q.RecordPublish(1, time.Millisecond, nil)
	})
}

func TestDuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	_, err := NewHTTPMetrics(registry)
	require.NoError(t, err)
	_, err = NewHTTPMetrics(registry)
	assert.Error(t, err)
}
