// Package seqf1 computes sequence-level precision, recall and F1 for
// sequence-generation models.
//
// # Quick Start
//
//	acc := seqf1.New(seqf1.WithPadIdx(-1), seqf1.WithEOSIdx(0))
//
//	predicted, _ := seqf1.FromRows([][]int64{{2, 4}, {4, 5}, {1, 0}})
//	target, _ := seqf1.FromRows([][]int64{{1, 1}, {2, 2}, {4, 0}})
//	if err := acc.Update(predicted, target); err != nil {
//	    log.Fatal(err)
//	}
//
//	m := acc.Compute()
//	fmt.Printf("P=%.2f R=%.2f F1=%.2f\n", m.Precision, m.Recall, m.F1Score)
//
// # Layout
//
// Batches are Grids of shape (sequence length, batch size): each column is
// one example. Within a column, everything from the first end-of-sequence or
// padding token onward is excluded, and the remaining tokens are compared as
// multisets.
//
// # Thread Safety
//
// SequentialF1 is not safe for concurrent use. Give each worker its own
// accumulator and combine them with Merge.
package seqf1
