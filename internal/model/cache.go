package model

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/couchcryptid/storm-spi-service/internal/observability"
	"github.com/dgraph-io/ristretto"
)

// PredictionCache memoizes member outputs. Members are deterministic and
// read-only, so a cached probability is always the one the model would
// return.
type PredictionCache struct {
	cache   *ristretto.Cache
	metrics *observability.Metrics
}

type cachedPrediction struct {
	model  string
	vector domain.FeatureVector
	prob   float64
}

// NewPredictionCache holds up to maxEntries predictions across all members.
func NewPredictionCache(maxEntries int64, metrics *observability.Metrics) (*PredictionCache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxEntries)
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxEntries,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Every entry costs 1, so MaxCost is an entry count.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}
	return &PredictionCache{cache: c, metrics: metrics}, nil
}

// Wrap decorates p so its outputs are cached under model.
func (c *PredictionCache) Wrap(model string, p domain.Predictor) *CachedPredictor {
	return &CachedPredictor{model: model, inner: p, cache: c}
}

// Wait blocks until buffered writes are applied.
func (c *PredictionCache) Wait() { c.cache.Wait() }

// Close releases the cache's background goroutines.
func (c *PredictionCache) Close() { c.cache.Close() }

func (c *PredictionCache) observe(model, result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.PredictionCache.WithLabelValues(model, result).Inc()
}

// CachedPredictor wraps a Predictor with the shared prediction cache.
type CachedPredictor struct {
	model string
	inner domain.Predictor
	cache *PredictionCache
}

func (p *CachedPredictor) PredictProbability(v domain.FeatureVector) (float64, error) {
	key := cacheKey(p.model, v)
	if val, ok := p.cache.cache.Get(key); ok {
		// The full vector is stored with the value, so a hash collision is a
		// miss rather than a wrong answer.
		if e, ok := val.(cachedPrediction); ok && e.model == p.model && e.vector == v {
			p.cache.observe(p.model, "hit")
			return e.prob, nil
		}
	}
	p.cache.observe(p.model, "miss")

	prob, err := p.inner.PredictProbability(v)
	if err != nil {
		return prob, err
	}
	p.cache.cache.Set(key, cachedPrediction{model: p.model, vector: v, prob: prob}, 1)
	return prob, nil
}

func cacheKey(model string, v domain.FeatureVector) uint64 {
	var buf [8 * domain.FeatureCount]byte
	for i, x := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(x))
	}
	h := xxhash.New()
	_, _ = h.WriteString(model)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(buf[:])
	return h.Sum64()
}
