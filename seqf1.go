package seqf1

import (
	"fmt"
	"log/slog"
)

// SequentialF1 accumulates sequence-level overlap statistics across batches.
// It is not safe for concurrent use.
type SequentialF1 struct {
	counts      Counts
	padIdx      int64
	eosIdx      int64
	strictShape bool
	logger      *slog.Logger
}

// New creates an accumulator with zeroed counters.
func New(opts ...Option) *SequentialF1 {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &SequentialF1{
		padIdx:      cfg.padIdx,
		eosIdx:      cfg.eosIdx,
		strictShape: cfg.strictShape,
		logger:      cfg.logger,
	}
}

// PadIdx returns the configured padding sentinel.
func (s *SequentialF1) PadIdx() int64 { return s.padIdx }

// EOSIdx returns the configured end-of-sequence sentinel.
func (s *SequentialF1) EOSIdx() int64 { return s.eosIdx }

// EndSequenceMask marks, per column, every position from the first
// end-of-sequence or padding token onward. Columns without either are left
// fully unmasked.
func (s *SequentialF1) EndSequenceMask(tokens Grid) Mask {
	return endSequenceMask(tokens, s.padIdx, s.eosIdx)
}

// Update adds the overlap counts of a batch to the running totals.
// Both grids are (sequence length, batch size); each is masked by its own
// end-of-sequence mask. Counters are untouched on error.
func (s *SequentialF1) Update(predicted, target Grid) error {
	if predicted.cols != target.cols {
		return fmt.Errorf("%w: predicted batch size %d, target batch size %d", ErrShapeMismatch, predicted.cols, target.cols)
	}
	if s.strictShape && predicted.rows != target.rows {
		return fmt.Errorf("%w: predicted shape (%d, %d), target shape (%d, %d)",
			ErrShapeMismatch, predicted.rows, predicted.cols, target.rows, target.cols)
	}

	predMask := s.EndSequenceMask(predicted)
	targetMask := s.EndSequenceMask(target)

	var delta Counts
	for c := 0; c < target.cols; c++ {
		delta = delta.Plus(countOverlap(
			validTokens(predicted, predMask, c),
			validTokens(target, targetMask, c),
		))
	}

	s.counts = s.counts.Plus(delta)

	s.logger.Debug("seqf1 update",
		slog.Int("batch_size", target.cols),
		slog.Int("predicted_len", predicted.rows),
		slog.Int("target_len", target.rows),
		slog.Int("tp", delta.TruePositive),
		slog.Int("fp", delta.FalsePositive),
		slog.Int("fn", delta.FalseNegative),
	)
	return nil
}

// UpdateValues converts predicted and target with FromValues, then calls
// Update. Non-integer or ragged input fails with ErrTypeMismatch.
func (s *SequentialF1) UpdateValues(predicted, target any) error {
	p, err := FromValues(predicted)
	if err != nil {
		return fmt.Errorf("predicted: %w", err)
	}
	t, err := FromValues(target)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	return s.Update(p, t)
}

// Compute returns metrics for the counters accumulated since construction
// or the last Reset. It does not modify state.
func (s *SequentialF1) Compute() ClassificationMetrics {
	return s.counts.Metrics()
}

// Reset zeroes all counters.
func (s *SequentialF1) Reset() {
	s.counts = Counts{}
}

// Counts returns the current counters.
func (s *SequentialF1) Counts() Counts { return s.counts }

// TruePositive returns the running true positive count.
func (s *SequentialF1) TruePositive() int { return s.counts.TruePositive }

// FalsePositive returns the running false positive count.
func (s *SequentialF1) FalsePositive() int { return s.counts.FalsePositive }

// FalseNegative returns the running false negative count.
func (s *SequentialF1) FalseNegative() int { return s.counts.FalseNegative }

// Add adds c to the running totals, e.g. when restoring from a checkpoint.
func (s *SequentialF1) Add(c Counts) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.counts = s.counts.Plus(c)
	return nil
}

// Merge adds the counters of other into s. other is left unchanged.
func (s *SequentialF1) Merge(other *SequentialF1) {
	if other == nil {
		return
	}
	s.counts = s.counts.Plus(other.counts)
}
