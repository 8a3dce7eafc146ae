package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Input selects which vector a member consumes.
type Input string

const (
	InputRaw    Input = "raw"
	InputScaled Input = "scaled"
)

// MemberSpec describes one ensemble member in the manifest.
type MemberSpec struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Path  string `yaml:"path"`
	Input Input  `yaml:"input"`
}

// Manifest lists the artifacts that make up the ensemble. Relative paths are
// resolved against the model directory.
type Manifest struct {
	Scaler  string       `yaml:"scaler"`
	Members []MemberSpec `yaml:"models"`
}

// DefaultManifest is the layout the models were originally shipped with.
// The tree ensemble was trained on unscaled inputs; the SVM and the network
// on scaled ones.
func DefaultManifest() Manifest {
	return Manifest{
		Scaler: "SPI_scaler.json",
		Members: []MemberSpec{
			{Name: "gbt", Kind: KindGradientBoosting, Path: "SPI_GBT.json", Input: InputRaw},
			{Name: "svm", Kind: KindSVC, Path: "SPI_SVM.json", Input: InputScaled},
			{Name: "ann", Kind: KindMLP, Path: "SPI_ANN.json", Input: InputScaled},
		},
	}
}

// ReadManifest parses a YAML manifest. A missing file yields DefaultManifest
// and found == false.
func ReadManifest(path string) (m Manifest, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultManifest(), false, nil
	}
	if err != nil {
		return Manifest{}, false, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, true, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, true, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, true, nil
}

// Validate checks the manifest describes a complete ensemble.
func (m Manifest) Validate() error {
	if m.Scaler == "" {
		return errors.New("scaler path is required")
	}
	if len(m.Members) != EnsembleSize {
		return fmt.Errorf("expected %d models, got %d", EnsembleSize, len(m.Members))
	}
	seen := make(map[string]bool, len(m.Members))
	for i, s := range m.Members {
		if s.Name == "" {
			return fmt.Errorf("model %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("model %q listed twice", s.Name)
		}
		seen[s.Name] = true
		if s.Path == "" {
			return fmt.Errorf("model %q: path is required", s.Name)
		}
		switch s.Kind {
		case KindGradientBoosting, KindSVC, KindMLP:
		default:
			return fmt.Errorf("model %q: unknown kind %q", s.Name, s.Kind)
		}
		switch s.Input {
		case InputRaw, InputScaled:
		default:
			return fmt.Errorf("model %q: input must be %q or %q", s.Name, InputRaw, InputScaled)
		}
	}
	return nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
