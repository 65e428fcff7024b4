package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	seqf1 "github.com/jamesainslie/go-seqf1"
	"github.com/jamesainslie/go-seqf1/internal/checkpoint"
)

// EvaluateCheckpointed evaluates corpora into a fresh accumulator, resuming
// from the checkpoint at path when it exists. Corpora the checkpoint already
// covers are skipped, so rerunning over the same directory leaves the counts
// unchanged. The checkpoint is rewritten with every corpus now included.
func EvaluateCheckpointed(ctx context.Context, corpora []*Corpus, cfg Config, path string) (*seqf1.SequentialF1, error) {
	acc := cfg.accumulator()
	logger := cfg.logger()

	snap, err := checkpoint.Load(path)
	switch {
	case err == nil:
		if err := snap.Restore(acc); err != nil {
			return nil, err
		}
		logger.Info("resumed from checkpoint",
			slog.String("path", path),
			slog.String("counts", snap.Counts.String()),
			slog.Int("corpora", len(snap.Corpora)))
	case errors.Is(err, os.ErrNotExist):
		snap = checkpoint.Snapshot{}
	default:
		return nil, err
	}

	covered := snap.Corpora
	for _, c := range corpora {
		if snap.Covers(c.ID) {
			logger.Debug("corpus already in checkpoint", slog.String("corpus", c.ID))
			continue
		}
		if err := EvaluateInto(ctx, acc, c, cfg); err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", c.ID, err)
		}
		covered = append(covered, c.ID)
	}

	next := checkpoint.Take(filepath.Base(path), acc)
	next.Corpora = covered
	if err := checkpoint.Save(path, next); err != nil {
		return nil, err
	}
	return acc, nil
}
