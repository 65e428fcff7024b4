package bench

import (
	"context"
	"fmt"
	"log/slog"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// Config holds evaluation parameters.
type Config struct {
	PadIdx          int64
	EOSIdx          int64
	BatchSize       int
	MaxLength       int // predictions are truncated to this many tokens; 0 disables
	PrecisionWeight float64
	RecallWeight    float64
	Logger          *slog.Logger
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		PadIdx:          -1,
		EOSIdx:          0,
		BatchSize:       32,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) accumulator() *seqf1.SequentialF1 {
	return seqf1.New(
		seqf1.WithPadIdx(c.PadIdx),
		seqf1.WithEOSIdx(c.EOSIdx),
		seqf1.WithLogger(c.logger()),
	)
}

// Metrics holds evaluation results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// NewMetrics derives Metrics from accumulated counts.
func NewMetrics(c seqf1.Counts, cfg Config) Metrics {
	cm := c.Metrics()
	m := Metrics{
		TruePositives:  c.TruePositive,
		FalsePositives: c.FalsePositive,
		FalseNegatives: c.FalseNegative,
		Precision:      cm.Precision,
		Recall:         cm.Recall,
		F1:             cm.F1Score,
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}

// Counts returns the raw counters behind m.
func (m Metrics) Counts() seqf1.Counts {
	return seqf1.Counts{
		TruePositive:  m.TruePositives,
		FalsePositive: m.FalsePositives,
		FalseNegative: m.FalseNegatives,
	}
}

// Batch is one (predicted, target) pair of (sequence, batch) grids.
type Batch struct {
	Predicted seqf1.Grid
	Target    seqf1.Grid
}

// Batches groups examples into grids of at most size columns. Each side is
// right-padded with pad to its own longest sequence in the batch. When
// maxLength > 0, predictions are truncated to maxLength tokens.
func Batches(examples []Example, size int, pad int64, maxLength int) []Batch {
	if size <= 0 {
		size = 1
	}

	var batches []Batch
	for start := 0; start < len(examples); start += size {
		end := min(start+size, len(examples))
		chunk := examples[start:end]

		predicted := make([][]int64, len(chunk))
		target := make([][]int64, len(chunk))
		for i, ex := range chunk {
			predicted[i] = ex.Predicted
			if maxLength > 0 && len(predicted[i]) > maxLength {
				predicted[i] = predicted[i][:maxLength]
			}
			target[i] = ex.Target
		}

		batches = append(batches, Batch{
			Predicted: padColumns(predicted, pad),
			Target:    padColumns(target, pad),
		})
	}
	return batches
}

// padColumns lays out sequences as columns of a (longest, len(seqs)) grid.
func padColumns(seqs [][]int64, pad int64) seqf1.Grid {
	longest := 0
	for _, s := range seqs {
		longest = max(longest, len(s))
	}

	g := seqf1.NewGrid(longest, len(seqs))
	for c, s := range seqs {
		for r := 0; r < longest; r++ {
			v := pad
			if r < len(s) {
				v = s[r]
			}
			g.Set(r, c, v)
		}
	}
	return g
}

// EvaluateInto streams a corpus through acc in batches, checking ctx between
// batches.
func EvaluateInto(ctx context.Context, acc *seqf1.SequentialF1, corpus *Corpus, cfg Config) error {
	for i, b := range Batches(corpus.Examples, cfg.BatchSize, acc.PadIdx(), cfg.MaxLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := acc.Update(b.Predicted, b.Target); err != nil {
			return fmt.Errorf("corpus %s batch %d: %w", corpus.ID, i, err)
		}
	}
	return nil
}

// Evaluate scores a single corpus.
func Evaluate(ctx context.Context, corpus *Corpus, cfg Config) (Metrics, error) {
	acc := cfg.accumulator()
	if err := EvaluateInto(ctx, acc, corpus, cfg); err != nil {
		return Metrics{}, err
	}

	m := NewMetrics(acc.Counts(), cfg)
	cfg.logger().Info("evaluated corpus",
		slog.String("corpus", corpus.ID),
		slog.Int("examples", len(corpus.Examples)),
		slog.Float64("f1", m.F1),
	)
	return m, nil
}
