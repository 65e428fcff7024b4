package bench

import (
	"context"
	"sort"
)

// SweepResult holds metrics for one maximum prediction length.
type SweepResult struct {
	MaxLength int
	Metrics   Metrics
}

// SweepLengths generates maximum lengths from min to max with given step.
func SweepLengths(min, max, step int) []int {
	if step <= 0 {
		return nil
	}
	var lengths []int
	for l := min; l <= max; l += step {
		lengths = append(lengths, l)
	}
	return lengths
}

// Sweep evaluates the corpora with predictions truncated to each length and
// returns results sorted by weighted score, best first.
func Sweep(ctx context.Context, corpora []*Corpus, cfg Config, lengths []int) ([]SweepResult, error) {
	var results []SweepResult

	for _, length := range lengths {
		cfg.MaxLength = length

		acc := cfg.accumulator()
		for _, corpus := range corpora {
			if err := EvaluateInto(ctx, acc, corpus, cfg); err != nil {
				return nil, err
			}
		}

		results = append(results, SweepResult{
			MaxLength: length,
			Metrics:   NewMetrics(acc.Counts(), cfg),
		})
	}

	// Sort by weighted score descending, shorter lengths first on ties
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.WeightedScore > results[j].Metrics.WeightedScore
	})

	return results, nil
}
