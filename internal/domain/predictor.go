package domain

// Predictor scores one feature vector. Implementations are read-only after
// construction and safe for concurrent use.
type Predictor interface {
	// PredictProbability returns the probability that the event class is
	// positive. The vector is raw or scaled according to how the model was
	// trained; the caller decides which.
	PredictProbability(v FeatureVector) (float64, error)
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(v FeatureVector) (float64, error)

func (f PredictorFunc) PredictProbability(v FeatureVector) (float64, error) { return f(v) }
