package seqf1

import (
	"fmt"
	"math"
)

// Grid is a dense (rows x cols) matrix of token indices stored row-major.
// Rows are time steps and each column is one example's sequence.
type Grid struct {
	data []int64
	rows int
	cols int
}

// NewGrid returns a zero-filled grid.
func NewGrid(rows, cols int) Grid {
	if rows < 0 || cols < 0 {
		panic("seqf1: negative grid dimension")
	}
	return Grid{
		data: make([]int64, rows*cols),
		rows: rows,
		cols: cols,
	}
}

// FromRows builds a grid from a slice of equally sized rows.
func FromRows(rows [][]int64) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, nil
	}

	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrTypeMismatch, r, len(row), cols)
		}
		copy(g.data[r*cols:], row)
	}
	return g, nil
}

// FromColumn builds a single-example grid of shape (len(seq), 1).
func FromColumn(seq []int64) Grid {
	g := NewGrid(len(seq), 1)
	copy(g.data, seq)
	return g
}

// FromFloat32 builds a grid from row-major float32 data, as produced by most
// inference runtimes. Every value must be integral.
func FromFloat32(data []float32, rows, cols int) (Grid, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return Grid{}, fmt.Errorf("%w: %d values for shape (%d, %d)", ErrTypeMismatch, len(data), rows, cols)
	}

	g := NewGrid(rows, cols)
	for i, v := range data {
		n, err := toInt(float64(v))
		if err != nil {
			return Grid{}, fmt.Errorf("%w at (%d, %d)", err, i/cols, i%cols)
		}
		g.data[i] = n
	}
	return g, nil
}

// FromValues converts a 1-D or 2-D slice of any built-in integer type, or of
// floats holding integral values, to a grid. A 1-D slice becomes a single
// column. Unsigned values above math.MaxInt64 are rejected.
func FromValues(v any) (Grid, error) {
	switch x := v.(type) {
	case Grid:
		return x.Clone(), nil
	case [][]int64:
		return FromRows(x)
	case []int64:
		return FromColumn(x), nil
	case []int:
		return column(x)
	case []int8:
		return column(x)
	case []int16:
		return column(x)
	case []int32:
		return column(x)
	case []uint:
		return column(x)
	case []uint8:
		return column(x)
	case []uint16:
		return column(x)
	case []uint32:
		return column(x)
	case []uint64:
		return column(x)
	case []float32:
		return floatColumn(x)
	case []float64:
		return floatColumn(x)
	case [][]int:
		return rowsOf(x, intOf[int])
	case [][]int8:
		return rowsOf(x, intOf[int8])
	case [][]int16:
		return rowsOf(x, intOf[int16])
	case [][]int32:
		return rowsOf(x, intOf[int32])
	case [][]uint:
		return rowsOf(x, intOf[uint])
	case [][]uint8:
		return rowsOf(x, intOf[uint8])
	case [][]uint16:
		return rowsOf(x, intOf[uint16])
	case [][]uint32:
		return rowsOf(x, intOf[uint32])
	case [][]uint64:
		return rowsOf(x, intOf[uint64])
	case [][]float32:
		return rowsOf(x, func(f float32) (int64, error) { return toInt(float64(f)) })
	case [][]float64:
		return rowsOf(x, toInt)
	default:
		return Grid{}, fmt.Errorf("%w: unsupported input %T", ErrTypeMismatch, v)
	}
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func intOf[T integer](v T) (int64, error) {
	if v >= 0 && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %d out of range", ErrTypeMismatch, v)
	}
	return int64(v), nil
}

func column[T integer](seq []T) (Grid, error) {
	g := NewGrid(len(seq), 1)
	for i, v := range seq {
		n, err := intOf(v)
		if err != nil {
			return Grid{}, fmt.Errorf("%w at row %d", err, i)
		}
		g.data[i] = n
	}
	return g, nil
}

func floatColumn[T float32 | float64](seq []T) (Grid, error) {
	g := NewGrid(len(seq), 1)
	for i, v := range seq {
		n, err := toInt(float64(v))
		if err != nil {
			return Grid{}, fmt.Errorf("%w at row %d", err, i)
		}
		g.data[i] = n
	}
	return g, nil
}

func rowsOf[T any](rows [][]T, conv func(T) (int64, error)) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, nil
	}

	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrTypeMismatch, r, len(row), cols)
		}
		for c, v := range row {
			n, err := conv(v)
			if err != nil {
				return Grid{}, fmt.Errorf("%w at (%d, %d)", err, r, c)
			}
			g.data[r*cols+c] = n
		}
	}
	return g, nil
}

func toInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: non-integer value %v", ErrTypeMismatch, f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: value %v out of range", ErrTypeMismatch, f)
	}
	return int64(f), nil
}

// ConcatColumns joins grids with the same number of rows side by side.
func ConcatColumns(grids ...Grid) (Grid, error) {
	if len(grids) == 0 {
		return Grid{}, nil
	}

	rows := grids[0].rows
	cols := 0
	for i, g := range grids {
		if g.rows != rows {
			return Grid{}, fmt.Errorf("%w: grid %d has %d rows, want %d", ErrShapeMismatch, i, g.rows, rows)
		}
		cols += g.cols
	}

	out := NewGrid(rows, cols)
	offset := 0
	for _, g := range grids {
		for r := 0; r < rows; r++ {
			copy(out.data[r*cols+offset:], g.data[r*g.cols:(r+1)*g.cols])
		}
		offset += g.cols
	}
	return out, nil
}

// Rows returns the sequence length.
func (g Grid) Rows() int { return g.rows }

// Cols returns the batch size.
func (g Grid) Cols() int { return g.cols }

// At returns the token at (row, col).
func (g Grid) At(row, col int) int64 {
	return g.data[row*g.cols+col]
}

// Set stores v at (row, col).
func (g Grid) Set(row, col int, v int64) {
	g.data[row*g.cols+col] = v
}

// Column returns a copy of one example's sequence.
func (g Grid) Column(col int) []int64 {
	out := make([]int64, g.rows)
	for r := range out {
		out[r] = g.data[r*g.cols+col]
	}
	return out
}

// Transpose returns a (cols x rows) copy, converting between the
// (sequence, batch) layout used here and the (batch, sequence) layout
// inference runtimes expect.
func (g Grid) Transpose() Grid {
	out := NewGrid(g.cols, g.rows)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			out.data[c*g.rows+r] = g.data[r*g.cols+c]
		}
	}
	return out
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := Grid{data: make([]int64, len(g.data)), rows: g.rows, cols: g.cols}
	copy(out.data, g.data)
	return out
}

// Data returns the row-major backing slice.
func (g Grid) Data() []int64 { return g.data }
