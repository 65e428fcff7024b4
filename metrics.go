package seqf1

import "fmt"

// Counts holds running true/false positive and false negative totals.
type Counts struct {
	TruePositive  int
	FalsePositive int
	FalseNegative int
}

// ClassificationMetrics is a precision/recall/F1 snapshot.
type ClassificationMetrics struct {
	Precision float64
	Recall    float64
	F1Score   float64
}

// Plus returns the element-wise sum of c and o.
func (c Counts) Plus(o Counts) Counts {
	return Counts{
		TruePositive:  c.TruePositive + o.TruePositive,
		FalsePositive: c.FalsePositive + o.FalsePositive,
		FalseNegative: c.FalseNegative + o.FalseNegative,
	}
}

// IsZero reports whether all counters are zero.
func (c Counts) IsZero() bool {
	return c == Counts{}
}

// Validate returns ErrInvalidCounts if any counter is negative.
func (c Counts) Validate() error {
	if c.TruePositive < 0 || c.FalsePositive < 0 || c.FalseNegative < 0 {
		return fmt.Errorf("%w: tp=%d fp=%d fn=%d", ErrInvalidCounts, c.TruePositive, c.FalsePositive, c.FalseNegative)
	}
	return nil
}

// Metrics derives precision, recall and F1. Every ratio with a zero
// denominator is 0.
func (c Counts) Metrics() ClassificationMetrics {
	var m ClassificationMetrics
	tp, fp, fn := c.TruePositive, c.FalsePositive, c.FalseNegative

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}

func (c Counts) String() string {
	return fmt.Sprintf("TP: %d, FP: %d, FN: %d", c.TruePositive, c.FalsePositive, c.FalseNegative)
}
