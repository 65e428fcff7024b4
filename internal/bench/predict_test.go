package bench

import (
	"context"
	"errors"
	"reflect"
	"testing"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// echoPredictor predicts every input token unchanged.
type echoPredictor struct {
	calls int
}

func (e *echoPredictor) PredictGrid(_ context.Context, inputs seqf1.Grid, _ int64) (seqf1.Grid, error) {
	e.calls++
	return inputs.Clone(), nil
}

type shrinkPredictor struct{}

func (shrinkPredictor) PredictGrid(_ context.Context, inputs seqf1.Grid, _ int64) (seqf1.Grid, error) {
	return seqf1.NewGrid(1, inputs.Cols()), nil
}

func TestPredict(t *testing.T) {
	corpus := &Corpus{
		ID: "model",
		Examples: []Example{
			{Target: []int64{4, 5, 0}, Input: []int64{4, 5, 0}},
			{Target: []int64{6, 0}, Input: []int64{6, 7, 8, 0}},
			{Target: []int64{9, 0}, Input: []int64{9, 0}},
		},
	}

	cfg := DefaultConfig()
	cfg.BatchSize = 2

	p := &echoPredictor{}
	if err := Predict(context.Background(), p, corpus, cfg); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if p.calls != 2 {
		t.Errorf("predictor calls = %d, want 2", p.calls)
	}

	for i, ex := range corpus.Examples {
		if !reflect.DeepEqual(ex.Predicted, ex.Input) {
			t.Errorf("example %d predicted = %v, want %v", i, ex.Predicted, ex.Input)
		}
	}

	m, err := Evaluate(context.Background(), corpus, cfg)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if m.TruePositives != 4 || m.FalsePositives != 2 || m.FalseNegatives != 0 {
		t.Errorf("metrics = %+v, want TP 4 FP 2 FN 0", m)
	}
}

func TestPredict_Errors(t *testing.T) {
	missing := &Corpus{ID: "missing", Examples: []Example{{Target: []int64{1}}}}
	if err := Predict(context.Background(), &echoPredictor{}, missing, DefaultConfig()); err == nil {
		t.Error("expected error for example without input")
	}

	short := &Corpus{ID: "short", Examples: []Example{{Target: []int64{1}, Input: []int64{1, 2, 0}}}}
	err := Predict(context.Background(), shrinkPredictor{}, short, DefaultConfig())
	if !errors.Is(err, seqf1.ErrShapeMismatch) {
		t.Errorf("Predict() error = %v, want ErrShapeMismatch", err)
	}
}
