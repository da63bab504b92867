package bench

import (
	"context"
	"fmt"
	"sort"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
)

// SweepResult holds metrics for one threshold value.
type SweepResult struct {
	Threshold float32 `json:"threshold"`
	Metrics   Metrics `json:"metrics"`
}

// TokenizerFactory builds a tokenizer for a boundary threshold. The returned
// close function releases it.
type TokenizerFactory func(threshold float32) (ifevalko.SentenceTokenizer, func() error, error)

// SweepThresholds generates threshold values from min to max with given step.
func SweepThresholds(min, max, step float32) []float32 {
	if step <= 0 {
		return nil
	}
	var thresholds []float32
	for i := 0; ; i++ {
		t := min + float32(i)*step
		if t >= max {
			break
		}
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates every threshold and returns results sorted by weighted
// score, best first. Ties keep threshold order.
func Sweep(ctx context.Context, factory TokenizerFactory, corpora []Corpus, cfg Config, thresholds []float32) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(thresholds))

	for _, threshold := range thresholds {
		tok, closeFn, err := factory(threshold)
		if err != nil {
			return nil, fmt.Errorf("threshold %.3f: %w", threshold, err)
		}

		_, agg, err := Run(ctx, tok, corpora, cfg, nil)
		if closeErr := closeFn(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, fmt.Errorf("threshold %.3f: %w", threshold, err)
		}

		results = append(results, SweepResult{Threshold: threshold, Metrics: agg})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})
	return results, nil
}
