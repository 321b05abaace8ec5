package crack

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"pwd-analyzer/internal/entropy"
)

// Attack model names. Every estimate carries an hour count for each of these.
const (
	AttackRainbowTable      = "rainbow_table"
	AttackOfflineBruteForce = "offline_brute_force"
	AttackDictionary        = "dictionary_attack"
)

var attackModels = []string{AttackRainbowTable, AttackOfflineBruteForce, AttackDictionary}

// Estimate source markers. Degraded remote estimation is not an error; it is
// observable here.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Estimate maps each attack model to a non-negative duration in hours. Units
// are never mixed within one estimate.
type Estimate struct {
	Hours  map[string]float64 `json:"hours"`
	Source string             `json:"source"`
}

// Benchmark guesses-per-second figures for the deterministic path.
const (
	rainbowSpeed    = 1e9
	bruteForceSpeed = 1e11
	dictionarySpeed = 1e7

	// Baseline dictionary keyspace: word count times variation factor.
	dictionaryWords      = 1e7
	dictionaryVariations = 100

	minHours = 0.01
)

// Estimator resolves crack times through an optional remote path with a local
// deterministic fallback. The zero remote means fallback-only.
type Estimator struct {
	remote  RemoteEstimator
	timeout time.Duration
}

// NewEstimator wires an estimator. remote may be nil.
func NewEstimator(remote RemoteEstimator) *Estimator {
	return &Estimator{remote: remote, timeout: 30 * time.Second}
}

// Estimate never fails: the primary path gets a single bounded attempt and any
// transport or validation failure degrades to the deterministic fallback.
func (e *Estimator) Estimate(ctx context.Context, password string) Estimate {
	if e.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, e.timeout)
		hours, err := e.remote.CrackTimes(rctx, password)
		cancel()

		if err == nil {
			if validated, ok := validateRemote(hours); ok {
				return Estimate{Hours: validated, Source: SourceRemote}
			}
			log.Debug().Msg("remote crack-time result failed validation, using fallback")
		} else {
			log.Debug().Err(err).Msg("remote crack-time estimation unavailable, using fallback")
		}
	}

	return Estimate{Hours: Fallback(password), Source: SourceFallback}
}

// validateRemote accepts a remote result only when every attack model is
// present with a finite, non-negative hour count.
func validateRemote(hours map[string]float64) (map[string]float64, bool) {
	validated := make(map[string]float64, len(attackModels))
	for _, model := range attackModels {
		h, ok := hours[model]
		if !ok || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return nil, false
		}
		validated[model] = h
	}
	return validated, true
}

// Fallback computes deterministic estimates from charset size and length. Two
// passwords of equal length and charset diversity always estimate equally.
func Fallback(password string) map[string]float64 {
	charset := entropy.CharsetSize(password)
	length := float64(len([]rune(password)))

	combinations := math.Pow(charset, length)
	if math.IsInf(combinations, 0) {
		combinations = math.MaxFloat64
	}

	rainbow := combinations / rainbowSpeed / 3600
	brute := combinations / bruteForceSpeed / 3600
	dictionary := dictionaryWords * dictionaryVariations / dictionarySpeed / 3600

	// Dictionary attacks fall off hard against long, diverse passwords.
	if length > 8 && charset > 36 {
		dictionary *= 10
	}

	rainbow = math.Max(rainbow, minHours)
	brute = math.Max(brute, minHours)
	dictionary = math.Max(dictionary, minHours)

	// A rainbow table never beats raw brute force in this model. The cap is
	// applied after the floor so the invariant holds even for trivial inputs.
	if limit := 0.8 * brute; rainbow > limit {
		rainbow = limit
	}

	return map[string]float64{
		AttackRainbowTable:      rainbow,
		AttackOfflineBruteForce: brute,
		AttackDictionary:        dictionary,
	}
}

// FormatEstimate renders each hour count as a human duration.
func FormatEstimate(est Estimate) map[string]string {
	out := make(map[string]string, len(est.Hours))
	for model, hours := range est.Hours {
		out[model] = entropy.FormatHours(hours)
	}
	return out
}
