package seqf1

// Mask marks grid positions excluded from scoring. It has the same
// row-major layout as the Grid it was computed from.
type Mask struct {
	data []bool
	rows int
	cols int
}

// Rows returns the sequence length.
func (m Mask) Rows() int { return m.rows }

// Cols returns the batch size.
func (m Mask) Cols() int { return m.cols }

// At reports whether (row, col) is excluded.
func (m Mask) At(row, col int) bool {
	return m.data[row*m.cols+col]
}

// Count returns the number of excluded positions.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// endSequenceMask masks, per column, every row from the first pad or eos
// token onward, plus any stray pad token.
func endSequenceMask(tokens Grid, padIdx, eosIdx int64) Mask {
	m := Mask{
		data: make([]bool, tokens.rows*tokens.cols),
		rows: tokens.rows,
		cols: tokens.cols,
	}

	for c := 0; c < tokens.cols; c++ {
		end := tokens.rows
		for r := 0; r < tokens.rows; r++ {
			v := tokens.data[r*tokens.cols+c]
			if v == eosIdx || v == padIdx {
				end = r
				break
			}
		}

		for r := 0; r < tokens.rows; r++ {
			i := r*tokens.cols + c
			m.data[i] = r >= end || tokens.data[i] == padIdx
		}
	}

	return m
}

// validTokens returns the unmasked tokens of one column in row order.
func validTokens(tokens Grid, mask Mask, col int) []int64 {
	out := make([]int64, 0, tokens.rows)
	for r := 0; r < tokens.rows; r++ {
		i := r*tokens.cols + col
		if !mask.data[i] {
			out = append(out, tokens.data[i])
		}
	}
	return out
}
