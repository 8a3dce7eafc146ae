package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixture artifacts small enough to evaluate by hand.
//
//	gbt: one stump on MUCAPE at 1000, leaves -1 and 2, lr 0.5
//	     → sigmoid(-0.5) below the split, sigmoid(1) above it
//	svm: linear kernel, single support vector e0, A=-1, B=0
//	     → sigmoid(x0)
//	ann: 9→2 relu (x0, -x0) → 1 sigmoid (sum)
//	     → sigmoid(|x0|)
//	scaler: center 1000 on MUCAPE, scale 500, identity elsewhere

var fixtureGBT = gradientBoostingArtifact{
	NFeatures:    9,
	Init:         0,
	LearningRate: 0.5,
	Trees: []treeArtifact{{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{1000, -2, -2},
		Value:         []float64{0, -1, 2},
	}},
}

var fixtureSVC = svcArtifact{
	Kernel:         "linear",
	SupportVectors: [][]float64{{1, 0, 0, 0, 0, 0, 0, 0, 0}},
	DualCoef:       []float64{1},
	Intercept:      0,
	ProbA:          -1,
	ProbB:          0,
}

var fixtureMLP = mlpArtifact{
	Layers: []layerArtifact{
		{
			Weights: [][]float64{
				{1, -1}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
			},
			Bias:       []float64{0, 0},
			Activation: "relu",
		},
		{
			Weights:    [][]float64{{1}, {1}},
			Bias:       []float64{0},
			Activation: "sigmoid",
		},
	},
}

var fixtureScaler = scalerArtifact{
	FeatureNames: []string{"MUCAPE", "MUCIN", "MULCL", "LLCAPE", "sfc1shear", "EBWD", "ESRH", "el_sr_wind", "eff_inflow_sr_wind"},
	Center:       []float64{1000, 0, 0, 0, 0, 0, 0, 0, 0},
	Scale:        []float64{500, 1, 1, 1, 1, 1, 1, 1, 1},
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeFixtureDir lays out the default artifact names in a temp dir.
func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, dir, "SPI_GBT.json", fixtureGBT)
	writeJSON(t, dir, "SPI_SVM.json", fixtureSVC)
	writeJSON(t, dir, "SPI_ANN.json", fixtureMLP)
	writeJSON(t, dir, "SPI_scaler.json", fixtureScaler)
	return dir
}
