package bench

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// CorpusResult holds metrics for one corpus.
type CorpusResult struct {
	Corpus  *Corpus
	Metrics Metrics
}

// Comparison is the outcome of Compare.
type Comparison struct {
	// Results are ordered by F1, best first.
	Results []CorpusResult
	// Total merges every corpus' counters.
	Total Metrics
}

// Compare evaluates corpora concurrently with at most workers goroutines.
// Every corpus gets its own accumulator; the totals are merged afterwards.
func Compare(ctx context.Context, corpora []*Corpus, cfg Config, workers int) (Comparison, error) {
	if workers <= 0 {
		workers = 1
	}

	accs := make([]*seqf1.SequentialF1, len(corpora))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, corpus := range corpora {
		g.Go(func() error {
			acc := cfg.accumulator()
			if err := EvaluateInto(gctx, acc, corpus, cfg); err != nil {
				return err
			}
			accs[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}

	total := cfg.accumulator()
	results := make([]CorpusResult, len(corpora))
	for i, acc := range accs {
		total.Merge(acc)
		results[i] = CorpusResult{
			Corpus:  corpora[i],
			Metrics: NewMetrics(acc.Counts(), cfg),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.F1 > results[j].Metrics.F1
	})

	cfg.logger().Info("compared corpora",
		slog.Int("corpora", len(corpora)),
		slog.Int("workers", workers),
		slog.String("total", total.Counts().String()),
	)

	return Comparison{
		Results: results,
		Total:   NewMetrics(total.Counts(), cfg),
	}, nil
}
