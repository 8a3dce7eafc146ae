package model

import (
	"fmt"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// scalerArtifact accepts both RobustScaler-style (center) and
// StandardScaler-style (mean) exports.
type scalerArtifact struct {
	FeatureNames []string  `json:"feature_names"`
	Center       []float64 `json:"center"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// LoadScaler reads the scaler artifact. When the export records feature
// names they must match the canonical column order.
func LoadScaler(path string) (domain.Scaler, error) {
	a, err := loadJSON[scalerArtifact](path)
	if err != nil {
		return domain.Scaler{}, &domain.ModelLoadError{Artifact: path, Err: err}
	}
	s, err := newScaler(a)
	if err != nil {
		return domain.Scaler{}, &domain.ModelLoadError{Artifact: path, Err: err}
	}
	return s, nil
}

func newScaler(a scalerArtifact) (domain.Scaler, error) {
	if len(a.FeatureNames) > 0 {
		if err := checkFeatureNames(a.FeatureNames); err != nil {
			return domain.Scaler{}, err
		}
	}

	center := a.Center
	if center == nil {
		center = a.Mean
	}
	if len(center) != domain.FeatureCount || len(a.Scale) != domain.FeatureCount {
		return domain.Scaler{}, fmt.Errorf("expected %d center and scale values, got %d and %d",
			domain.FeatureCount, len(center), len(a.Scale))
	}

	var c, s domain.FeatureVector
	copy(c[:], center)
	copy(s[:], a.Scale)
	return domain.NewScaler(c, s)
}

func checkFeatureNames(names []string) error {
	want := domain.FeatureNames()
	if len(names) != len(want) {
		return fmt.Errorf("artifact lists %d features, expected %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, names[i], want[i])
		}
	}
	return nil
}
