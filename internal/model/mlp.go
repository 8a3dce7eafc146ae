package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// layerArtifact is a Keras Dense layer: kernel shaped [inputs][units].
type layerArtifact struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

type mlpArtifact struct {
	Layers []layerArtifact `json:"layers"`
}

type dense struct {
	weights    [][]float64 // [in][out]
	bias       []float64
	activation func(float64) float64
}

// MLP is a feed-forward network of dense layers ending in a single unit whose
// activation is the class-1 probability.
type MLP struct {
	layers []dense
}

// LoadMLP reads and validates a dense network artifact.
func LoadMLP(path string) (*MLP, error) {
	a, err := loadJSON[mlpArtifact](path)
	if err != nil {
		return nil, err
	}
	return newMLP(a)
}

func newMLP(a mlpArtifact) (*MLP, error) {
	if len(a.Layers) == 0 {
		return nil, errors.New("no layers")
	}

	m := &MLP{layers: make([]dense, len(a.Layers))}
	in := domain.FeatureCount
	for li, l := range a.Layers {
		if len(l.Weights) != in {
			return nil, fmt.Errorf("layer %d: expected %d input rows, got %d", li, in, len(l.Weights))
		}
		out := len(l.Bias)
		if out == 0 {
			return nil, fmt.Errorf("layer %d: no units", li)
		}
		for r, row := range l.Weights {
			if len(row) != out {
				return nil, fmt.Errorf("layer %d: weight row %d has %d columns, expected %d", li, r, len(row), out)
			}
			if err := checkFinite(fmt.Sprintf("layer %d weights", li), row...); err != nil {
				return nil, err
			}
		}
		if err := checkFinite(fmt.Sprintf("layer %d bias", li), l.Bias...); err != nil {
			return nil, err
		}
		act, err := activation(l.Activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", li, err)
		}
		m.layers[li] = dense{weights: l.Weights, bias: l.Bias, activation: act}
		in = out
	}
	if in != 1 {
		return nil, fmt.Errorf("output layer has %d units, expected 1", in)
	}
	return m, nil
}

func activation(name string) (func(float64) float64, error) {
	switch name {
	case "relu":
		return func(x float64) float64 { return math.Max(0, x) }, nil
	case "tanh":
		return math.Tanh, nil
	case "sigmoid":
		return sigmoid, nil
	case "linear", "":
		return func(x float64) float64 { return x }, nil
	default:
		return nil, fmt.Errorf("unsupported activation %q", name)
	}
}

// PredictProbability implements domain.Predictor on the scaled vector.
func (m *MLP) PredictProbability(v domain.FeatureVector) (float64, error) {
	x := v[:]
	for _, l := range m.layers {
		y := make([]float64, len(l.bias))
		copy(y, l.bias)
		for i, xi := range x {
			row := l.weights[i]
			for j := range y {
				y[j] += xi * row[j]
			}
		}
		for j := range y {
			y[j] = l.activation(y[j])
		}
		x = y
	}
	return x[0], nil
}
