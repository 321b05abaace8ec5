package analyzer

import (
	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"

	"pwd-analyzer/internal/batch"
	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/entropy"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/records"
	"pwd-analyzer/internal/strength"
)

// Analysis is the full single-password result.
type Analysis struct {
	Score       float64           `json:"score"`
	Bucket      strength.Bucket   `json:"bucket"`
	EntropyBits float64           `json:"entropy_bits"`
	Estimate    crack.Estimate    `json:"estimate"`
	Display     map[string]string `json:"crack_time_display"`
	Findings    []pii.Finding     `json:"findings,omitempty"`
}

// Analyzer is the facade over the scoring, estimation and matching pipeline.
// Analyses against the fixed default record set are cached; a password
// analyzed against caller-supplied records never enters the cache, since the
// findings depend on the records.
type Analyzer struct {
	scorer      *strength.Scorer
	estimator   *crack.Estimator
	matcher     *pii.Matcher
	coordinator *batch.Coordinator
	cache       *ristretto.Cache

	// defaults is the dataset loaded at startup, matched when the caller
	// supplies no records of their own. Read-only after construction.
	defaults []records.Record
}

// New wires the facade. defaults may be nil. The cache is sized for a modest
// working set; analyses are small, so cost 1 per entry is close enough.
func New(scorer *strength.Scorer, estimator *crack.Estimator, matcher *pii.Matcher, defaults []records.Record) (*Analyzer, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		scorer:      scorer,
		estimator:   estimator,
		matcher:     matcher,
		coordinator: batch.NewCoordinator(scorer, estimator, matcher),
		cache:       cache,
		defaults:    defaults,
	}, nil
}

// Close releases the cache.
func (a *Analyzer) Close() {
	a.cache.Close()
}

// ScorePassword runs the strength pipeline alone.
func (a *Analyzer) ScorePassword(password string) (float64, strength.Bucket, error) {
	score, err := a.scorer.Score(password)
	if err != nil {
		return 0, "", err
	}
	return score, strength.BucketFor(score), nil
}

// EstimateCrackTime runs the crack-time pipeline alone. It never fails.
func (a *Analyzer) EstimateCrackTime(ctx context.Context, password string) crack.Estimate {
	return a.estimator.Estimate(ctx, password)
}

// DetectPII runs the tiered matcher alone.
func (a *Analyzer) DetectPII(password string, recs []records.Record) []pii.Finding {
	return a.matcher.Match(password, recs)
}

// Analyze produces the combined result. When no records are supplied the
// default dataset is matched and the result is served from, and written
// through to, the cache.
func (a *Analyzer) Analyze(ctx context.Context, password string, recs []records.Record) (Analysis, error) {
	cacheable := len(recs) == 0
	if cacheable {
		recs = a.defaults
		if cached, ok := a.cache.Get(password); ok {
			log.Debug().Msg("analysis served from cache")
			return cached.(Analysis), nil
		}
	}

	score, bucket, err := a.ScorePassword(password)
	if err != nil {
		return Analysis{}, err
	}

	est := a.estimator.Estimate(ctx, password)
	analysis := Analysis{
		Score:       score,
		Bucket:      bucket,
		EntropyBits: entropy.Bits(password),
		Estimate:    est,
		Display:     crack.FormatEstimate(est),
		Findings:    a.matcher.Match(password, recs),
	}

	if cacheable {
		a.cache.Set(password, analysis, 1)
	}
	return analysis, nil
}

// RunBatch evaluates every password through the batch coordinator. Batch items
// bypass the cache; the coordinator already bounds the expensive remote calls.
func (a *Analyzer) RunBatch(ctx context.Context, passwords []string, recs []records.Record) (batch.Result, error) {
	return a.coordinator.Run(ctx, passwords, recs)
}

// WaitCache drains pending cache writes. Only useful when a caller needs
// read-after-write visibility, which normal request traffic does not.
func (a *Analyzer) WaitCache() {
	a.cache.Wait()
}
