package predictor

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/potability-go/internal/observability/metrics"
	"github.com/tphakala/potability-go/internal/waterquality"
)

// Cached memoizes predictions keyed by the exact feature vector. Backends are
// deterministic, so a hit returns the label the model would produce.
type Cached struct {
	next    Predictor
	cache   *cache.Cache
	metrics *metrics.PredictorMetrics
}

// NewCached wraps next with a TTL cache.
func NewCached(next Predictor, ttl time.Duration, m *metrics.PredictorMetrics) *Cached {
	return &Cached{
		next:    next,
		cache:   cache.New(ttl, 2*ttl),
		metrics: m,
	}
}

func cacheKey(m waterquality.Measurements) string {
	var b strings.Builder
	for i, v := range m.Vector() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}

// Predict returns a cached label or delegates to the wrapped predictor.
// Errors are not cached.
func (c *Cached) Predict(ctx context.Context, m waterquality.Measurements) (waterquality.Potability, error) {
	key := cacheKey(m)
	if v, ok := c.cache.Get(key); ok {
		if label, ok := v.(waterquality.Potability); ok {
			c.metrics.RecordCacheLookup(true)
			return label, nil
		}
	}
	c.metrics.RecordCacheLookup(false)

	label, err := c.next.Predict(ctx, m)
	if err != nil {
		return 0, err
	}
	c.cache.Set(key, label, cache.DefaultExpiration)
	return label, nil
}

// Info reports the wrapped model with Cached set.
func (c *Cached) Info() ModelInfo {
	info := c.next.Info()
	info.Cached = true
	return info
}

// Close flushes the cache and closes the wrapped predictor.
func (c *Cached) Close() error {
	c.cache.Flush()
	return c.next.Close()
}
