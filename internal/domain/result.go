package domain

import "time"

// Contribution is one ensemble member's output for a request.
type Contribution struct {
	Model       string  `json:"model"`
	Probability float64 `json:"probability"`
	Percent     float64 `json:"percent"`
}

// PredictionResult is handed to the presentation layer. It lives for a single
// request.
type PredictionResult struct {
	Score         float64        `json:"score"`
	Inputs        []EchoField    `json:"inputs"`
	Contributions []Contribution `json:"contributions"`
	ScoredAt      time.Time      `json:"scored_at"`
}

// NewPredictionResult aggregates the contributions and stamps the result with
// the package clock.
func NewPredictionResult(in RawInput, contributions []Contribution) (PredictionResult, error) {
	probs := make([]float64, len(contributions))
	out := make([]Contribution, len(contributions))
	for i, c := range contributions {
		probs[i] = c.Probability
		c.Percent = Percent(c.Probability)
		out[i] = c
	}
	score, err := Aggregate(probs)
	if err != nil {
		return PredictionResult{}, err
	}
	return PredictionResult{
		Score:         score,
		Inputs:        in.Echo(),
		Contributions: out,
		ScoredAt:      clock.Now().UTC(),
	}, nil
}
