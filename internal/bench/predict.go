package bench

import (
	"context"
	"fmt"

	seqf1 "github.com/jamesainslie/go-seqf1"
	"github.com/jamesainslie/go-seqf1/inference"
)

// Predictor produces a (sequence, batch) grid of predicted ids for a grid
// of input ids. *inference.Pool satisfies it.
type Predictor interface {
	PredictGrid(ctx context.Context, inputs seqf1.Grid, padIdx int64) (seqf1.Grid, error)
}

var _ Predictor = (*inference.Pool)(nil)

// Predict replaces every example's Predicted ids with the model's output for
// its Input ids. Trailing pad positions added for batching are dropped.
func Predict(ctx context.Context, p Predictor, corpus *Corpus, cfg Config) error {
	size := cfg.BatchSize
	if size <= 0 {
		size = 1
	}

	for start := 0; start < len(corpus.Examples); start += size {
		end := min(start+size, len(corpus.Examples))
		chunk := corpus.Examples[start:end]

		inputs := make([][]int64, len(chunk))
		for i, ex := range chunk {
			if len(ex.Input) == 0 {
				return fmt.Errorf("corpus %s example %d: no input ids", corpus.ID, start+i)
			}
			inputs[i] = ex.Input
		}

		grid := padColumns(inputs, cfg.PadIdx)
		predicted, err := p.PredictGrid(ctx, grid, cfg.PadIdx)
		if err != nil {
			return fmt.Errorf("corpus %s examples %d-%d: %w", corpus.ID, start, end-1, err)
		}
		if predicted.Rows() != grid.Rows() || predicted.Cols() != grid.Cols() {
			return fmt.Errorf("corpus %s: %w: predictions (%d, %d) for inputs (%d, %d)",
				corpus.ID, seqf1.ErrShapeMismatch, predicted.Rows(), predicted.Cols(), grid.Rows(), grid.Cols())
		}

		for i := range chunk {
			col := predicted.Column(i)
			chunk[i].Predicted = col[:len(chunk[i].Input)]
		}
	}
	return nil
}
