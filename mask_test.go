package seqf1

import "testing"

func maskRows(m Mask) [][]bool {
	out := make([][]bool, m.Rows())
	for r := range out {
		out[r] = make([]bool, m.Cols())
		for c := range out[r] {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

func assertMask(t *testing.T, got Mask, want [][]bool) {
	t.Helper()
	rows := maskRows(got)
	if len(rows) != len(want) {
		t.Fatalf("mask has %d rows, want %d", len(rows), len(want))
	}
	for r := range want {
		for c := range want[r] {
			if rows[r][c] != want[r][c] {
				t.Errorf("mask[%d][%d] = %v, want %v", r, c, rows[r][c], want[r][c])
			}
		}
	}
}

func TestEndSequenceMask(t *testing.T) {
	tokens := [][]int64{
		{1, 1, 1, 1},
		{1, 1, 1, -1},
		{1, 1, -1, 2},
		{1, -1, 2, 2},
	}
	want := [][]bool{
		{false, false, false, false},
		{false, false, false, true},
		{false, false, true, true},
		{false, true, true, true},
	}

	tests := []struct {
		name   string
		padIdx int64
		eosIdx int64
	}{
		{name: "marker is pad", padIdx: -1, eosIdx: 0},
		{name: "marker is eos", padIdx: 0, eosIdx: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithPadIdx(tt.padIdx), WithEOSIdx(tt.eosIdx))
			assertMask(t, s.EndSequenceMask(mustRows(t, tokens)), want)
		})
	}
}

func TestEndSequenceMask_Combining(t *testing.T) {
	tokens := [][]int64{
		{1, 1, 1, 1},
		{1, 1, 0, -1},
		{1, 0, -1, 2},
		{0, -1, 2, 2},
	}
	want := [][]bool{
		{false, false, false, false},
		{false, false, true, true},
		{false, true, true, true},
		{true, true, true, true},
	}

	s := New(WithPadIdx(-1), WithEOSIdx(0))
	assertMask(t, s.EndSequenceMask(mustRows(t, tokens)), want)
}

func TestEndSequenceMask_Columns(t *testing.T) {
	tests := []struct {
		name   string
		padIdx int64
		eosIdx int64
		seq    []int64
		want   []bool
	}{
		{
			name:   "no marker",
			padIdx: -1,
			eosIdx: 0,
			seq:    []int64{4, 5, 6},
			want:   []bool{false, false, false},
		},
		{
			name:   "marker in first row",
			padIdx: -1,
			eosIdx: 0,
			seq:    []int64{0, 5, 6},
			want:   []bool{true, true, true},
		},
		{
			name:   "marker in second row",
			padIdx: -1,
			eosIdx: 0,
			seq:    []int64{7, 0, 6},
			want:   []bool{false, true, true},
		},
		{
			name:   "pad equals eos",
			padIdx: 3,
			eosIdx: 3,
			seq:    []int64{1, 2, 3, 3},
			want:   []bool{false, false, true, true},
		},
		{
			name:   "empty column",
			padIdx: -1,
			eosIdx: 0,
			seq:    []int64{},
			want:   []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithPadIdx(tt.padIdx), WithEOSIdx(tt.eosIdx))
			m := s.EndSequenceMask(FromColumn(tt.seq))
			want := make([][]bool, len(tt.want))
			for i, v := range tt.want {
				want[i] = []bool{v}
			}
			assertMask(t, m, want)
		})
	}
}

func TestCountOverlap(t *testing.T) {
	tests := []struct {
		name      string
		predicted []int64
		target    []int64
		want      Counts
	}{
		{
			name:      "partial overlap",
			predicted: []int64{2, 4, 1, 5},
			target:    []int64{1, 2, 3, 4},
			want:      Counts{TruePositive: 3, FalsePositive: 1, FalseNegative: 1},
		},
		{
			name:      "disjoint",
			predicted: []int64{4, 5, 6},
			target:    []int64{1, 2, 3},
			want:      Counts{FalsePositive: 3, FalseNegative: 3},
		},
		{
			name:      "superset prediction",
			predicted: []int64{1, 2, 3},
			target:    []int64{1, 2},
			want:      Counts{TruePositive: 2, FalsePositive: 1},
		},
		{
			name:      "empty prediction",
			predicted: nil,
			target:    []int64{1},
			want:      Counts{FalseNegative: 1},
		},
		{
			name:      "duplicates",
			predicted: []int64{1, 1, 2},
			target:    []int64{1, 2, 2, 3},
			want:      Counts{TruePositive: 2, FalsePositive: 1, FalseNegative: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countOverlap(tt.predicted, tt.target); got != tt.want {
				t.Errorf("countOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}
