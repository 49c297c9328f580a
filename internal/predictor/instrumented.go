package predictor

import (
	"context"
	"time"

	"github.com/tphakala/potability-go/internal/observability/metrics"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// Instrumented records duration, outcome and label of every prediction.
type Instrumented struct {
	next    Predictor
	backend string
	metrics *metrics.PredictorMetrics
}

// NewInstrumented wraps next. A nil metrics value disables recording.
func NewInstrumented(next Predictor, m *metrics.PredictorMetrics) *Instrumented {
	return &Instrumented{next: next, backend: next.Info().Backend, metrics: m}
}

func (p *Instrumented) Predict(ctx context.Context, m waterquality.Measurements) (waterquality.Potability, error) {
	start := time.Now()
	label, err := p.next.Predict(ctx, m)
	p.metrics.RecordPrediction(p.backend, int(label), time.Since(start), err)
	return label, err
}

func (p *Instrumented) Info() ModelInfo {
	return p.next.Info()
}

func (p *Instrumented) Close() error {
	return p.next.Close()
}
