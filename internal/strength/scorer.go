package strength

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"pwd-analyzer/internal/features"
)

// ErrEmptyPassword rejects scoring of the empty string. PII matching accepts
// it; the strength model does not.
var ErrEmptyPassword = errors.New("password must not be empty")

// Bucket is the canonical strength tier. The source of this system used two
// different threshold schemes at different call sites; the four-tier scheme is
// the one persisted into result files, so it is the one used everywhere here.
type Bucket string

const (
	BucketWeak       Bucket = "weak"
	BucketModerate   Bucket = "moderate"
	BucketStrong     Bucket = "strong"
	BucketVeryStrong Bucket = "very strong"
)

// BucketFor classifies a score: weak <=0.3, moderate <=0.65, strong <=0.85,
// very strong above.
func BucketFor(score float64) Bucket {
	switch {
	case score <= 0.3:
		return BucketWeak
	case score <= 0.65:
		return BucketModerate
	case score <= 0.85:
		return BucketStrong
	default:
		return BucketVeryStrong
	}
}

// The override checks presence against the full ASCII punctuation set, not the
// narrow 8-symbol class the feature extractor counts.
const overridePunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Scorer applies the injected model to a password's feature vector and remaps
// over-confident predictions for low-complexity inputs. The random source is
// injected so the remap is reproducible under test.
type Scorer struct {
	model Model

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewScorer builds a scorer around a loaded model. A nil source seeds a fresh
// one; tests pass a fixed seed.
func NewScorer(model Model, rnd *rand.Rand) *Scorer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Scorer{model: model, rnd: rnd}
}

// Score extracts features, runs the model, and applies the override: a
// prediction above 0.7 for a password missing an uppercase letter, lowercase
// letter, digit, or punctuation character is replaced with a uniform draw from
// [0.3, 0.6) rounded to two decimals. The model can over-score short or skewed
// inputs, hence the remap.
func (s *Scorer) Score(password string) (float64, error) {
	if password == "" {
		return 0, ErrEmptyPassword
	}

	predicted, err := s.model.Predict(features.Extract(password))
	if err != nil {
		return 0, &ModelError{Err: err}
	}
	if math.IsNaN(predicted) || math.IsInf(predicted, 0) {
		return 0, &ModelError{Err: errors.New("model returned a non-numeric score")}
	}

	if predicted > 0.7 && missingComplexity(password) {
		remapped := s.drawOverride()
		log.Debug().
			Float64("predicted", predicted).
			Float64("remapped", remapped).
			Msg("low-complexity override applied")
		return remapped, nil
	}

	return predicted, nil
}

func (s *Scorer) drawOverride() float64 {
	s.mu.Lock()
	v := 0.3 + s.rnd.Float64()*0.3
	s.mu.Unlock()
	return math.Round(v*100) / 100
}

func missingComplexity(password string) bool {
	var upper, lower, digit, punct bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(overridePunctuation, r):
			punct = true
		}
	}
	return !(upper && lower && digit && punct)
}
