package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

type svcArtifact struct {
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         int         `json:"degree"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       []float64   `json:"dual_coef"`
	Intercept      float64     `json:"intercept"`
	ProbA          float64     `json:"prob_a"`
	ProbB          float64     `json:"prob_b"`
}

type kernelFunc func(x, sv *domain.FeatureVector) float64

// SVC is a two-class support-vector classifier with Platt-calibrated
// probabilities: p = 1 / (1 + exp(A·f(x) + B)) where
// f(x) = Σ dual_coef_i · K(sv_i, x) + intercept.
type SVC struct {
	kernel    kernelFunc
	vectors   []domain.FeatureVector
	coef      []float64
	intercept float64
	probA     float64
	probB     float64
}

// LoadSVC reads and validates a support-vector artifact.
func LoadSVC(path string) (*SVC, error) {
	a, err := loadJSON[svcArtifact](path)
	if err != nil {
		return nil, err
	}
	return newSVC(a)
}

func newSVC(a svcArtifact) (*SVC, error) {
	if len(a.SupportVectors) == 0 {
		return nil, errors.New("no support vectors")
	}
	if len(a.DualCoef) != len(a.SupportVectors) {
		return nil, fmt.Errorf("%d dual coefficients for %d support vectors", len(a.DualCoef), len(a.SupportVectors))
	}
	if a.ProbA == 0 {
		return nil, errors.New("prob_a is zero; model was not trained with probability estimates")
	}
	if err := checkFinite("coefficients", append([]float64{a.Gamma, a.Coef0, a.Intercept, a.ProbA, a.ProbB}, a.DualCoef...)...); err != nil {
		return nil, err
	}

	kernel, err := newKernel(a)
	if err != nil {
		return nil, err
	}

	s := &SVC{
		kernel:    kernel,
		vectors:   make([]domain.FeatureVector, len(a.SupportVectors)),
		coef:      a.DualCoef,
		intercept: a.Intercept,
		probA:     a.ProbA,
		probB:     a.ProbB,
	}
	for i, sv := range a.SupportVectors {
		if len(sv) != domain.FeatureCount {
			return nil, fmt.Errorf("support vector %d has %d features, expected %d", i, len(sv), domain.FeatureCount)
		}
		if err := checkFinite(fmt.Sprintf("support vector %d", i), sv...); err != nil {
			return nil, err
		}
		copy(s.vectors[i][:], sv)
	}
	return s, nil
}

func newKernel(a svcArtifact) (kernelFunc, error) {
	gamma, coef0, degree := a.Gamma, a.Coef0, a.Degree
	switch a.Kernel {
	case "linear":
		return dot, nil
	case "rbf":
		if gamma <= 0 {
			return nil, errors.New("rbf kernel requires gamma > 0")
		}
		return func(x, sv *domain.FeatureVector) float64 {
			var d2 float64
			for i := range x {
				d := x[i] - sv[i]
				d2 += d * d
			}
			return math.Exp(-gamma * d2)
		}, nil
	case "poly":
		if degree < 1 {
			return nil, errors.New("poly kernel requires degree >= 1")
		}
		return func(x, sv *domain.FeatureVector) float64 {
			return math.Pow(gamma*dot(x, sv)+coef0, float64(degree))
		}, nil
	case "sigmoid":
		return func(x, sv *domain.FeatureVector) float64 {
			return math.Tanh(gamma*dot(x, sv) + coef0)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported kernel %q", a.Kernel)
	}
}

func dot(x, sv *domain.FeatureVector) float64 {
	var s float64
	for i := range x {
		s += x[i] * sv[i]
	}
	return s
}

// Decision returns the signed distance f(x) from the separating surface.
func (s *SVC) Decision(v domain.FeatureVector) float64 {
	f := s.intercept
	for i := range s.vectors {
		f += s.coef[i] * s.kernel(&v, &s.vectors[i])
	}
	return f
}

// PredictProbability implements domain.Predictor on the scaled vector.
func (s *SVC) PredictProbability(v domain.FeatureVector) (float64, error) {
	f := s.Decision(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("decision value %v is not finite", f)
	}
	return sigmoid(-(s.probA*f + s.probB)), nil
}
