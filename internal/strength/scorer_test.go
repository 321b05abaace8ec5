package strength

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"pwd-analyzer/internal/features"
)

type fixedModel struct {
	score float64
	err   error
}

func (m fixedModel) Predict(features.Vector) (float64, error) {
	return m.score, m.err
}

func TestScoreEmptyPassword(t *testing.T) {
	s := NewScorer(fixedModel{score: 0.5}, rand.New(rand.NewSource(1)))
	if _, err := s.Score(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Empty password should be rejected, have %v", err)
	}
}

func TestScoreModelError(t *testing.T) {
	s := NewScorer(fixedModel{err: errors.New("boom")}, rand.New(rand.NewSource(1)))
	_, err := s.Score("whatever1A!")

	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("Model failure should surface as *ModelError, have %v", err)
	}
}

func TestScoreOverrideMissingDigit(t *testing.T) {
	// Predicted 0.95 but no digit present: must be remapped into [0.3, 0.6].
	s := NewScorer(fixedModel{score: 0.95}, rand.New(rand.NewSource(42)))
	score, err := s.Score("Abcdefgh!")
	if err != nil {
		t.Fatalf("Should not fail scoring: %s", err)
	}
	if score < 0.3 || score > 0.6 {
		t.Errorf("Override should land in [0.3, 0.6], have %f", score)
	}
	if math.Abs(score*100-math.Round(score*100)) > 1e-9 {
		t.Errorf("Override should be rounded to 2 decimals, have %f", score)
	}
}

func TestScoreOverrideDeterministicWithSeed(t *testing.T) {
	a := NewScorer(fixedModel{score: 0.9}, rand.New(rand.NewSource(7)))
	b := NewScorer(fixedModel{score: 0.9}, rand.New(rand.NewSource(7)))

	sa, _ := a.Score("nodigitshere")
	sb, _ := b.Score("nodigitshere")
	if sa != sb {
		t.Errorf("Same seed should produce the same override, have %f and %f", sa, sb)
	}
}

func TestScoreNoOverrideWithAllClasses(t *testing.T) {
	s := NewScorer(fixedModel{score: 0.95}, rand.New(rand.NewSource(1)))
	score, err := s.Score("Abcdef1!")
	if err != nil {
		t.Fatalf("Should not fail scoring: %s", err)
	}
	if score != 0.95 {
		t.Errorf("Full-class password should keep the raw prediction, have %f", score)
	}
}

func TestScoreNoOverrideBelowThreshold(t *testing.T) {
	// Predictions at or below 0.7 are never remapped, complexity issues or not.
	s := NewScorer(fixedModel{score: 0.7}, rand.New(rand.NewSource(1)))
	score, err := s.Score("alllowercase")
	if err != nil {
		t.Fatalf("Should not fail scoring: %s", err)
	}
	if score != 0.7 {
		t.Errorf("Prediction at threshold should pass through, have %f", score)
	}
}

func TestBucketFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Bucket
	}{
		{0.0, BucketWeak},
		{0.3, BucketWeak},
		{0.31, BucketModerate},
		{0.65, BucketModerate},
		{0.66, BucketStrong},
		{0.85, BucketStrong},
		{0.86, BucketVeryStrong},
		{1.0, BucketVeryStrong},
	}
	for _, c := range cases {
		if have := BucketFor(c.score); have != c.want {
			t.Errorf("BucketFor(%f) should be %s, have %s", c.score, c.want, have)
		}
	}
}

func TestLinearModelMonotonicOnLength(t *testing.T) {
	m := NewLinearModel()
	short, err := m.Predict(features.Extract("aB1!"))
	if err != nil {
		t.Fatalf("Should not fail predicting: %s", err)
	}
	long, err := m.Predict(features.Extract("aB1!xYz9$kLm"))
	if err != nil {
		t.Fatalf("Should not fail predicting: %s", err)
	}
	if long <= short {
		t.Errorf("Longer diverse password should score higher: %f vs %f", long, short)
	}
	if short <= 0 || long >= 1 {
		t.Errorf("Scores should stay in (0,1): %f, %f", short, long)
	}
}
