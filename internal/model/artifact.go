// Package model loads the exported SPI model artifacts and evaluates them
// natively.
//
// Artifacts are JSON exports of the offline-trained scikit-learn and Keras
// models: a gradient-boosted tree classifier, a probability-calibrated
// support-vector classifier, a dense feed-forward network, and the feature
// scaler. A YAML manifest names the files and says which members consume the
// scaled vector. Everything is loaded once at startup and is read-only
// afterwards.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
)

// Kind identifies an artifact format.
type Kind string

const (
	KindGradientBoosting Kind = "gradient_boosting"
	KindSVC              Kind = "svc"
	KindMLP              Kind = "mlp"
)

// loadJSON decodes a JSON artifact, rejecting unknown fields so a mismatched
// export fails loudly instead of loading as zeros.
func loadJSON[T any](path string) (T, error) {
	var v T
	f, err := os.Open(path)
	if err != nil {
		return v, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

// LoadPredictor reads the artifact at path according to kind.
func LoadPredictor(kind Kind, path string) (domain.Predictor, error) {
	var (
		p   domain.Predictor
		err error
	)
	switch kind {
	case KindGradientBoosting:
		p, err = LoadGradientBoosting(path)
	case KindSVC:
		p, err = LoadSVC(path)
	case KindMLP:
		p, err = LoadMLP(path)
	default:
		err = fmt.Errorf("unknown model kind %q", kind)
	}
	if err != nil {
		return nil, &domain.ModelLoadError{Artifact: path, Err: err}
	}
	return p, nil
}

func checkFinite(name string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s contains a non-finite value", name)
		}
	}
	return nil
}
