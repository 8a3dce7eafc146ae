package model

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// EnsembleSize is the number of members a complete ensemble has. A partial
// ensemble would silently shift the score distribution, so loading refuses it.
const EnsembleSize = 3

// Member binds a predictor to the vector variant it was trained on.
type Member struct {
	Name      string
	Input     Input
	Predictor domain.Predictor
}

// Ensemble routes each request's vector to its members, scaling it for the
// members that need it. It is immutable and safe for concurrent use.
type Ensemble struct {
	scaler  domain.Scaler
	members []Member
}

// NewEnsemble validates and wires the members.
func NewEnsemble(scaler domain.Scaler, members []Member) (*Ensemble, error) {
	if len(members) != EnsembleSize {
		return nil, fmt.Errorf("ensemble needs %d members, got %d", EnsembleSize, len(members))
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.Predictor == nil {
			return nil, fmt.Errorf("member %q has no predictor", m.Name)
		}
		if m.Input != InputRaw && m.Input != InputScaled {
			return nil, fmt.Errorf("member %q: invalid input %q", m.Name, m.Input)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate member %q", m.Name)
		}
		seen[m.Name] = true
	}
	return &Ensemble{scaler: scaler, members: append([]Member(nil), members...)}, nil
}

// Members returns the member names in scoring order.
func (e *Ensemble) Members() []string {
	names := make([]string, len(e.members))
	for i, m := range e.members {
		names[i] = m.Name
	}
	return names
}

// Predict scores v with every member. The first failing member aborts the
// request with a *domain.ModelInferenceError.
func (e *Ensemble) Predict(v domain.FeatureVector) ([]domain.Contribution, error) {
	var (
		scaled     domain.FeatureVector
		haveScaled bool
	)
	out := make([]domain.Contribution, len(e.members))
	for i, m := range e.members {
		x := v
		if m.Input == InputScaled {
			if !haveScaled {
				scaled, haveScaled = e.scaler.Transform(v), true
			}
			x = scaled
		}

		p, err := safePredict(m.Predictor, x)
		if err == nil {
			err = domain.CheckProbability(p)
		}
		if err != nil {
			return nil, &domain.ModelInferenceError{Model: m.Name, Err: err}
		}
		out[i] = domain.Contribution{Model: m.Name, Probability: p}
	}
	return out, nil
}

func safePredict(p domain.Predictor, v domain.FeatureVector) (prob float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("predictor panicked: %v", r)
		}
	}()
	return p.PredictProbability(v)
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// Cache, when non-nil, memoizes every member's output.
	Cache  *PredictionCache
	Logger *slog.Logger
}

// Load reads the scaler and every member listed in the manifest from dir.
// Any failure is returned as a *domain.ModelLoadError; there is no partial
// ensemble.
func Load(dir string, m Manifest, opts LoadOptions) (*Ensemble, error) {
	if err := m.Validate(); err != nil {
		return nil, &domain.ModelLoadError{Artifact: dir, Err: err}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scaler, err := LoadScaler(resolve(dir, m.Scaler))
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(m.Members))
	for _, spec := range m.Members {
		path := resolve(dir, spec.Path)
		p, err := LoadPredictor(spec.Kind, path)
		if err != nil {
			return nil, err
		}
		if opts.Cache != nil {
			p = opts.Cache.Wrap(spec.Name, p)
		}
		logger.Info("model loaded", "name", spec.Name, "kind", spec.Kind, "input", spec.Input, "path", path)
		members = append(members, Member{Name: spec.Name, Input: spec.Input, Predictor: p})
	}

	e, err := NewEnsemble(scaler, members)
	if err != nil {
		return nil, &domain.ModelLoadError{Artifact: dir, Err: err}
	}
	return e, nil
}

// IsLoadError reports whether err came from artifact loading.
func IsLoadError(err error) bool {
	var le *domain.ModelLoadError
	return errors.As(err, &le)
}
