package strength

import (
	"fmt"
	"math"

	"pwd-analyzer/internal/features"
)

// Model is the pre-built strength regressor. Implementations take the full
// feature vector and return a raw score; the scorer trusts the output as-is
// apart from the low-complexity override. Models are loaded once at startup
// and must be safe for concurrent use.
type Model interface {
	Predict(v features.Vector) (float64, error)
}

// ModelError wraps a model failure or a non-numeric prediction. It is fatal to
// the single score that produced it and is always surfaced to the caller.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("strength model failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// LinearModel is the bundled regressor: a fixed-weight linear combination over
// the feature schema squashed to (0,1). It stands in for an externally trained
// model when none is injected.
type LinearModel struct {
	weights []float64
	bias    float64
}

// NewLinearModel returns the bundled model with its shipped weights. Length and
// class diversity dominate; repetition and sequential patterns penalize.
func NewLinearModel() *LinearModel {
	return &LinearModel{
		weights: []float64{
			0.28,  // length
			0.22,  // upper count
			0.10,  // lower count
			0.20,  // digit count
			0.40,  // symbol count
			0.15,  // mid-placed chars
			-0.30, // repeated chars
			0.12,  // unique chars
			-0.20, // consecutive upper
			-0.20, // consecutive lower
			-0.20, // consecutive digit
			-0.20, // consecutive symbol
			-0.35, // sequential alpha
			-0.35, // sequential digit
			-0.45, // sequential keyboard
		},
		bias: -2.6,
	}
}

func (m *LinearModel) Predict(v features.Vector) (float64, error) {
	vals := v.Values()
	if len(vals) != len(m.weights) {
		return 0, fmt.Errorf("feature schema mismatch: %d features, %d weights", len(vals), len(m.weights))
	}

	sum := m.bias
	for i, w := range m.weights {
		sum += w * vals[i]
	}

	score := 1 / (1 + math.Exp(-sum/4))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("non-numeric prediction %f", score)
	}
	return score, nil
}
