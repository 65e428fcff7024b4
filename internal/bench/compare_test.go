package bench

import (
	"context"
	"errors"
	"testing"
)

func TestCompare(t *testing.T) {
	perfect := &Corpus{
		ID: "perfect",
		Examples: []Example{
			{Target: []int64{1, 2, 0}, Predicted: []int64{1, 2, 0}},
		},
	}

	corpora := []*Corpus{tableCorpus(), perfect}

	for _, workers := range []int{0, 1, 4} {
		got, err := Compare(context.Background(), corpora, DefaultConfig(), workers)
		if err != nil {
			t.Fatalf("Compare(workers=%d) error = %v", workers, err)
		}

		if len(got.Results) != 2 {
			t.Fatalf("got %d results, want 2", len(got.Results))
		}
		if got.Results[0].Corpus.ID != "perfect" {
			t.Errorf("best corpus = %s, want perfect", got.Results[0].Corpus.ID)
		}
		if got.Total.TruePositives != 7 || got.Total.FalsePositives != 5 || got.Total.FalseNegatives != 5 {
			t.Errorf("total = %+v, want TP 7 FP 5 FN 5", got.Total)
		}
	}
}

func TestCompare_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compare(ctx, []*Corpus{tableCorpus()}, DefaultConfig(), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compare() error = %v, want context.Canceled", err)
	}
}
