package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// RoundProbability rounds p to three decimals based on its exact binary
// value, with exact ties going to the even digit.
func RoundProbability(p float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 3, 64), 64)
	if err != nil {
		return p // unreachable: FormatFloat output always parses
	}
	return r
}

// Percent is a single model's contribution to the score.
func Percent(p float64) float64 {
	return 100 * RoundProbability(p)
}

// Aggregate combines class-1 probabilities into a 0-100 score. Each
// probability is rounded and converted to a percentage on its own, then the
// unweighted mean is taken.
func Aggregate(probs []float64) (float64, error) {
	if len(probs) == 0 {
		return 0, errors.New("aggregate: no probabilities")
	}
	var sum float64
	for i, p := range probs {
		if err := CheckProbability(p); err != nil {
			return 0, fmt.Errorf("aggregate: probability %d: %w", i, err)
		}
		sum += Percent(p)
	}
	return sum / float64(len(probs)), nil
}

// CheckProbability rejects values outside [0, 1] and NaN.
func CheckProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("probability %v outside [0, 1]", p)
	}
	return nil
}
