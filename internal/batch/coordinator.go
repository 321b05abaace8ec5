package batch

import (
	"time"

	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/net/context"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/records"
	"pwd-analyzer/internal/strength"
)

// Item is the per-password slot of a batch result, index-aligned with the
// input. A failed score leaves Err set and the rest best-effort.
type Item struct {
	Password string          `json:"password"`
	Score    float64         `json:"score"`
	Bucket   strength.Bucket `json:"bucket"`
	Estimate crack.Estimate  `json:"estimate"`
	Findings []pii.Finding   `json:"findings,omitempty"`
	Err      error           `json:"-"`
}

// Result aggregates a batch run: per-item slots plus bucket counts and the
// item indexes ordered weakest first.
type Result struct {
	Items        []Item
	Buckets      map[strength.Bucket]int
	WeakestFirst []int
}

// Coordinator fans passwords out over the single-item pipeline in fixed-size
// batches, bounding concurrent calls against any remote estimator.
type Coordinator struct {
	scorer    *strength.Scorer
	estimator *crack.Estimator
	matcher   *pii.Matcher

	batchSize int
	pause     time.Duration
}

// NewCoordinator wires a coordinator with the standard batch size of 5 and a
// one second pause between batches.
func NewCoordinator(scorer *strength.Scorer, estimator *crack.Estimator, matcher *pii.Matcher) *Coordinator {
	return &Coordinator{
		scorer:    scorer,
		estimator: estimator,
		matcher:   matcher,
		batchSize: 5,
		pause:     time.Second,
	}
}

// Run evaluates every password. recs, when present, is index-aligned with
// passwords: item i is only matched against its own record. Items within a
// batch run concurrently; each worker owns its input and its output slot, so
// the only synchronization is the per-batch join. The batch never aborts on a
// single item's failure.
func (c *Coordinator) Run(ctx context.Context, passwords []string, recs []records.Record) (Result, error) {
	items := make([]Item, len(passwords))
	printer := message.NewPrinter(language.English)

	for start := 0; start < len(passwords); start += c.batchSize {
		end := start + c.batchSize
		if end > len(passwords) {
			end = len(passwords)
		}

		pool, err := executor.New(executor.Config{
			ReqPerSeconds: 0,
			QueueSize:     2 * (end - start),
			NumWorkers:    end - start,
		})
		if err != nil {
			return Result{}, err
		}

		for i := start; i < end; i++ {
			if err = pool.Publish(func(idx int) {
				items[idx] = c.evaluate(ctx, passwords[idx], alignedRecord(recs, idx))
			}, i); err != nil {
				log.Panic().Err(err).Msg("there is a programming error here.")
			}
		}

		pool.Wait()
		pool.Close()

		log.Debug().Msgf("processed %s of %s passwords",
			printer.Sprint(end), printer.Sprint(len(passwords)))

		if end < len(passwords) && c.pause > 0 {
			select {
			case <-ctx.Done():
				return aggregate(items), ctx.Err()
			case <-time.After(c.pause):
			}
		}
	}

	return aggregate(items), nil
}

func (c *Coordinator) evaluate(ctx context.Context, password string, recs []records.Record) Item {
	item := Item{Password: password}

	score, err := c.scorer.Score(password)
	if err != nil {
		// Fatal to this slot only; estimation and matching still run.
		item.Err = err
		log.Warn().Err(err).Msg("password could not be scored")
	} else {
		item.Score = score
		item.Bucket = strength.BucketFor(score)
	}

	item.Estimate = c.estimator.Estimate(ctx, password)
	item.Findings = c.matcher.Match(password, recs)
	return item
}

func alignedRecord(recs []records.Record, idx int) []records.Record {
	if idx >= len(recs) {
		return nil
	}
	return recs[idx : idx+1]
}

func aggregate(items []Item) Result {
	res := Result{
		Items:   items,
		Buckets: make(map[strength.Bucket]int),
	}

	scores := make([]float64, len(items))
	res.WeakestFirst = make([]int, len(items))
	for i, item := range items {
		if item.Err == nil {
			res.Buckets[item.Bucket]++
		}
		scores[i] = item.Score
		res.WeakestFirst[i] = i
	}

	idx := res.WeakestFirst
	sorty.Sort(len(idx), func(i, k, r, s int) bool {
		if scores[idx[i]] < scores[idx[k]] {
			if r != s {
				idx[r], idx[s] = idx[s], idx[r]
			}
			return true
		}
		return false
	})

	return res
}
