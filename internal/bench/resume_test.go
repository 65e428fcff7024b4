package bench

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	seqf1 "github.com/jamesainslie/go-seqf1"
	"github.com/jamesainslie/go-seqf1/internal/checkpoint"
)

func TestEvaluateCheckpointed_Rerun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.ckpt")
	want := seqf1.Counts{TruePositive: 5, FalsePositive: 5, FalseNegative: 5}

	for run := 1; run <= 3; run++ {
		acc, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus()}, DefaultConfig(), path)
		if err != nil {
			t.Fatalf("run %d: EvaluateCheckpointed() error = %v", run, err)
		}
		if got := acc.Counts(); got != want {
			t.Errorf("run %d: accumulator = %v, want %v", run, got, want)
		}

		snap, err := checkpoint.Load(path)
		if err != nil {
			t.Fatalf("run %d: Load() error = %v", run, err)
		}
		if snap.Counts != want {
			t.Errorf("run %d: saved = %v, want %v", run, snap.Counts, want)
		}
		if !reflect.DeepEqual(snap.Corpora, []string{"table"}) {
			t.Errorf("run %d: saved corpora = %v, want [table]", run, snap.Corpora)
		}
	}
}

func TestEvaluateCheckpointed_NewCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.ckpt")

	if _, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus()}, DefaultConfig(), path); err != nil {
		t.Fatalf("first run error = %v", err)
	}

	perfect := &Corpus{
		ID: "perfect",
		Examples: []Example{
			{Target: []int64{1, 2, 0}, Predicted: []int64{1, 2, 0}},
		},
	}
	acc, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus(), perfect}, DefaultConfig(), path)
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	want := seqf1.Counts{TruePositive: 7, FalsePositive: 5, FalseNegative: 5}
	if got := acc.Counts(); got != want {
		t.Errorf("Counts() = %v, want %v", got, want)
	}

	snap, err := checkpoint.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(snap.Corpora, []string{"table", "perfect"}) {
		t.Errorf("saved corpora = %v, want [table perfect]", snap.Corpora)
	}
}

func TestEvaluateCheckpointed_SentinelMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.ckpt")
	if _, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus()}, DefaultConfig(), path); err != nil {
		t.Fatalf("first run error = %v", err)
	}

	cfg := DefaultConfig()
	cfg.EOSIdx = 9
	if _, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus()}, cfg, path); err == nil {
		t.Error("expected error resuming with different sentinels")
	}
}

func TestEvaluateCheckpointed_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.ckpt")
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := EvaluateCheckpointed(context.Background(), []*Corpus{tableCorpus()}, DefaultConfig(), path); err == nil {
		t.Error("expected error for corrupt checkpoint")
	}
}
