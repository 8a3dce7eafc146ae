package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scoring service.
type Metrics struct {
	Requests          *prometheus.CounterVec // labels: outcome={responded,rejected_validation,rejected_inference,rejected_canceled}
	ValidationErrors  *prometheus.CounterVec // labels: kind={missing,parse}
	InferenceErrors   *prometheus.CounterVec // labels: model
	ModelProbability  *prometheus.HistogramVec
	InferenceDuration prometheus.Histogram
	Score             prometheus.Histogram
	ModelsLoaded      prometheus.Gauge

	PredictionCache *prometheus.CounterVec // labels: model, result={hit,miss}
	RateLimited     prometheus.Counter
}

var (
	probabilityBuckets = []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95}
	scoreBuckets       = []float64{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95}
	durationBuckets    = []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05}
)

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.ValidationErrors,
		m.InferenceErrors,
		m.ModelProbability,
		m.InferenceDuration,
		m.Score,
		m.ModelsLoaded,
		m.PredictionCache,
		m.RateLimited,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spi",
			Name:      "requests_total",
			Help:      "Scoring submissions by outcome.",
		}, []string{"outcome"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spi",
			Name:      "validation_errors_total",
			Help:      "Rejected input fields by kind.",
		}, []string{"kind"}),
		InferenceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spi",
			Name:      "inference_errors_total",
			Help:      "Predictor failures by ensemble member.",
		}, []string{"model"}),
		ModelProbability: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spi",
			Name:      "model_probability",
			Help:      "Class-1 probability returned by each ensemble member.",
			Buckets:   probabilityBuckets,
		}, []string{"model"}),
		InferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spi",
			Name:      "inference_duration_seconds",
			Help:      "Time to score one feature vector with the full ensemble.",
			Buckets:   durationBuckets,
		}),
		Score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spi",
			Name:      "score",
			Help:      "Aggregate 0-100 score returned to users.",
			Buckets:   scoreBuckets,
		}),
		ModelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "spi",
			Name:      "models_loaded",
			Help:      "Number of ensemble members loaded at startup.",
		}),
		PredictionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spi",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache lookups by model and result.",
		}, []string{"model", "result"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "spi",
			Name:      "rate_limited_total",
			Help:      "Submissions rejected by the per-client rate limiter.",
		}),
	}
}
