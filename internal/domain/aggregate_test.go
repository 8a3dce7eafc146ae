package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundProbability(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.3334, 0.333},
		{0.3336, 0.334},
		{0.0004, 0},
		{0.0006, 0.001},
		{1, 1},
		{0, 0},
		{0.0625, 0.062},  // exact binary tie rounds to even
		{0.1875, 0.188},  // exact binary tie rounds to even
		{0.2675, 0.268},  // stored slightly above the tie
		{0.5005, 0.5},    // stored slightly below the tie
		{0.99951, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundProbability(tt.in), "round(%v)", tt.in)
	}
}

func TestAggregate_Bounds(t *testing.T) {
	score, err := Aggregate([]float64{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = Aggregate([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)

	for _, probs := range [][]float64{
		{0.999, 1, 0.9996},
		{0.0001, 0.0004, 0},
		{0.5, 0.25, 0.125},
	} {
		score, err := Aggregate(probs)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	}
}

func TestAggregate_Mean(t *testing.T) {
	score, err := Aggregate([]float64{0.5, 0.6, 0.7})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, score, 1e-9)
}

func TestAggregate_IndependentRounding(t *testing.T) {
	probs := []float64{0.3334, 0.3334, 0.3334}
	score, err := Aggregate(probs)
	require.NoError(t, err)

	want := (100*RoundProbability(0.3334) + 100*RoundProbability(0.3334) + 100*RoundProbability(0.3334)) / 3.0
	assert.Equal(t, want, score)
	assert.InDelta(t, 33.3, score, 1e-9)
}

func TestAggregate_DiffersFromAverageThenRound(t *testing.T) {
	// 0.0006 rounds up on its own while the mean (0.0004) rounds down.
	probs := []float64{0.0006, 0.0006, 0}
	score, err := Aggregate(probs)
	require.NoError(t, err)

	mean := (probs[0] + probs[1] + probs[2]) / 3
	averageFirst := 100 * RoundProbability(mean)

	assert.InDelta(t, 0.2/3, score, 1e-12)
	assert.Equal(t, 0.0, averageFirst)
	assert.NotEqual(t, averageFirst, score)
}

func TestAggregate_Errors(t *testing.T) {
	_, err := Aggregate(nil)
	require.Error(t, err)

	_, err = Aggregate([]float64{0.5, math.NaN(), 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probability 1")

	_, err = Aggregate([]float64{0.5, 1.01})
	require.Error(t, err)

	_, err = Aggregate([]float64{-0.1})
	require.Error(t, err)
}

func TestNewPredictionResult(t *testing.T) {
	fixed := time.Date(2024, time.April, 26, 21, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	in := NewRawInput(sampleForm())
	contributions := []Contribution{
		{Model: "gbt", Probability: 0.5},
		{Model: "svm", Probability: 0.6},
		{Model: "ann", Probability: 0.7},
	}

	res, err := NewPredictionResult(in, contributions)
	require.NoError(t, err)

	assert.InDelta(t, 60.0, res.Score, 1e-9)
	assert.Equal(t, fixed, res.ScoredAt)
	assert.Len(t, res.Inputs, FeatureCount)
	require.Len(t, res.Contributions, 3)
	assert.InDelta(t, 50.0, res.Contributions[0].Percent, 1e-9)
	assert.InDelta(t, 70.0, res.Contributions[2].Percent, 1e-9)
	assert.Zero(t, contributions[0].Percent, "input slice must not be modified")
}
