package domain

import (
	"fmt"
	"math"
)

// Scaler is a pre-fit per-feature linear normalization:
// scaled[i] = (raw[i] - Center[i]) / Scale[i].
type Scaler struct {
	center FeatureVector
	scale  FeatureVector
}

// NewScaler validates the parameters. Every scale must be finite and non-zero
// and every center finite.
func NewScaler(center, scale FeatureVector) (Scaler, error) {
	for i, f := range Features {
		if math.IsNaN(center[i]) || math.IsInf(center[i], 0) {
			return Scaler{}, fmt.Errorf("center for %s is not finite", f.Name)
		}
		if scale[i] == 0 || math.IsNaN(scale[i]) || math.IsInf(scale[i], 0) {
			return Scaler{}, fmt.Errorf("scale for %s must be finite and non-zero, got %v", f.Name, scale[i])
		}
	}
	return Scaler{center: center, scale: scale}, nil
}

// Center returns the per-feature offsets.
func (s Scaler) Center() FeatureVector { return s.center }

// Scale returns the per-feature divisors.
func (s Scaler) Scale() FeatureVector { return s.scale }

// Transform returns the scaled copy of v.
func (s Scaler) Transform(v FeatureVector) FeatureVector {
	var out FeatureVector
	for i := range v {
		out[i] = (v[i] - s.center[i]) / s.scale[i]
	}
	return out
}

// Inverse undoes Transform within floating-point tolerance.
func (s Scaler) Inverse(v FeatureVector) FeatureVector {
	var out FeatureVector
	for i := range v {
		out[i] = v[i]*s.scale[i] + s.center[i]
	}
	return out
}
