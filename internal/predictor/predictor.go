// Package predictor loads the water potability classifier and runs it on
// validated measurements.
//
// Two backends are available: a TensorFlow Lite model and a JSON decision
// tree. Both consume the nine measurements in waterquality.FeatureNames order
// and return a binary label. A loaded predictor is read-only and safe for
// concurrent use.
package predictor

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/observability/metrics"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// Predictor classifies water samples.
type Predictor interface {
	Predict(ctx context.Context, m waterquality.Measurements) (waterquality.Potability, error)
	Info() ModelInfo
	Close() error
}

// ModelInfo describes the loaded model.
type ModelInfo struct {
	Backend  string    `json:"backend"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Inputs   int       `json:"inputs"`
	Outputs  int       `json:"outputs"`
	Cached   bool      `json:"cached"`
	LoadedAt time.Time `json:"loadedAt"`
}

type options struct {
	log     logger.Logger
	metrics *metrics.PredictorMetrics
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used for load and prediction messages.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics instruments the predictor with Prometheus metrics.
func WithMetrics(m *metrics.PredictorMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// ResolveBackend maps a configured model type to a concrete backend,
// inferring it from the file extension for "auto".
func ResolveBackend(modelType, path string) (string, error) {
	switch modelType {
	case conf.ModelTypeTFLite, conf.ModelTypeTree:
		return modelType, nil
	case conf.ModelTypeAuto, "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".tflite":
			return conf.ModelTypeTFLite, nil
		case ".json":
			return conf.ModelTypeTree, nil
		}
		return "", errors.Newf("cannot infer model backend from %q", filepath.Base(path)).
			Component("predictor").
			Category(errors.CategoryConfiguration).
			Build()
	default:
		return "", errors.Newf("unsupported model type %q", modelType).
			Component("predictor").
			Category(errors.CategoryConfiguration).
			Build()
	}
}

// New loads the model described by settings and wraps it with
// instrumentation and, when enabled, a prediction cache.
func New(settings *conf.ModelSettings, opts ...Option) (Predictor, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Global().Module("predictor")
	}

	backend, err := ResolveBackend(settings.Type, settings.Path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var p Predictor
	switch backend {
	case conf.ModelTypeTFLite:
		p, err = NewTFLite(settings.Path, settings.Threshold, settings.Threads, o.log)
	default:
		p, err = LoadTree(settings.Path)
	}
	if err != nil {
		return nil, err
	}

	info := p.Info()
	o.metrics.SetModelLoaded(info.Backend, info.Name, true)
	o.log.Info("model loaded",
		logger.String("backend", info.Backend),
		logger.String("model", info.Name),
		logger.Int("inputs", info.Inputs),
		logger.Int("outputs", info.Outputs),
		logger.Duration("elapsed", time.Since(start)))

	p = NewInstrumented(p, o.metrics)
	if settings.Cache.Enabled {
		p = NewCached(p, settings.Cache.TTL, o.metrics)
	}
	return p, nil
}

// predictionError wraps a backend failure.
func predictionError(err error, backend string) *errors.EnhancedError {
	return errors.New(err).
		Component("predictor").
		Category(errors.CategoryPrediction).
		Context("backend", backend).
		Build()
}
