// Package scoring turns one form submission into a prediction result.
//
// Each submission moves through a fixed set of states:
//
//	AwaitingInput → Validating → Scoring → Responded
//	                     │           │
//	                     └───────────┴────→ Rejected
//
// Validation failures never reach the ensemble. Submissions are independent;
// the service keeps no per-request state.
package scoring

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/couchcryptid/storm-spi-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// State is where a submission ended up.
type State int

const (
	AwaitingInput State = iota
	Validating
	Scoring
	Responded
	Rejected
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case Validating:
		return "validating"
	case Scoring:
		return "scoring"
	case Responded:
		return "responded"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Ensemble scores a raw feature vector with every member. Which members see
// the scaled vector is the ensemble's business.
type Ensemble interface {
	Predict(v domain.FeatureVector) ([]domain.Contribution, error)
}

// Outcome is the terminal state of one submission. Input is always set so
// the presentation layer can echo what the user typed; Result is only
// meaningful when State is Responded.
type Outcome struct {
	State  State
	Input  domain.RawInput
	Result domain.PredictionResult
}

// Service is the request handler core. It is safe for concurrent use.
type Service struct {
	ensemble Ensemble
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the clock used to time inference.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// New creates a Service around a fully loaded ensemble.
func New(ensemble Ensemble, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	s := &Service{
		ensemble: ensemble,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckReadiness reports whether the ensemble is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.ensemble == nil {
		return errors.New("model ensemble not loaded")
	}
	return nil
}

// Score validates a submission and, if every field parses, scores it.
// A non-nil error always comes with State == Rejected: a
// *domain.ValidationError for bad input, a *domain.ModelInferenceError when a
// member fails, or the context's error.
func (s *Service) Score(ctx context.Context, values map[string]string) (Outcome, error) {
	out := Outcome{State: Validating, Input: domain.NewRawInput(values)}

	vec, err := domain.BuildFeatureVector(out.Input)
	if err != nil {
		s.observeValidation(err)
		return s.reject(out, "rejected_validation"), err
	}

	if err := ctx.Err(); err != nil {
		return s.reject(out, "rejected_canceled"), err
	}

	out.State = Scoring
	start := s.clock.Now()
	contributions, err := s.ensemble.Predict(vec)
	s.metrics.InferenceDuration.Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.observeInference(err)
		return s.reject(out, "rejected_inference"), err
	}

	result, err := domain.NewPredictionResult(out.Input, contributions)
	if err != nil {
		s.logger.Error("aggregate failed", "error", err)
		return s.reject(out, "rejected_inference"), &domain.ModelInferenceError{Model: "ensemble", Err: err}
	}

	for _, c := range result.Contributions {
		s.metrics.ModelProbability.WithLabelValues(c.Model).Observe(c.Probability)
	}
	s.metrics.Score.Observe(result.Score)
	s.metrics.Requests.WithLabelValues("responded").Inc()
	s.logger.Debug("submission scored", "score", result.Score, "contributions", result.Contributions)

	out.State = Responded
	out.Result = result
	return out, nil
}

func (s *Service) reject(out Outcome, outcome string) Outcome {
	s.metrics.Requests.WithLabelValues(outcome).Inc()
	out.State = Rejected
	return out
}

func (s *Service) observeValidation(err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, p := range verr.Problems {
		var missing *domain.MissingFieldError
		kind := "parse"
		if errors.As(p, &missing) {
			kind = "missing"
		}
		s.metrics.ValidationErrors.WithLabelValues(kind).Inc()
	}
	s.logger.Info("submission rejected", "error", err)
}

func (s *Service) observeInference(err error) {
	model := "unknown"
	var ie *domain.ModelInferenceError
	if errors.As(err, &ie) {
		model = ie.Model
	}
	s.metrics.InferenceErrors.WithLabelValues(model).Inc()
	s.logger.Error("inference failed", "model", model, "error", err)
}
