package sparse

import (
	"cmp"
	"fmt"
	"slices"
)

// COOStatus tracks whether a COO is ordered by (row, col).
type COOStatus uint8

const (
	Unsorted COOStatus = iota
	Sorted
)

func (s COOStatus) String() string {
	if s == Sorted {
		return "sorted"
	}
	return "unsorted"
}

// COO is a coordinate list matrix. Entries are appended with Insert and
// ordered with Sort before conversion to CSR.
type COO struct {
	Rows   int
	Cols   int
	RowIdx []uint32
	ColIdx []uint32
	Values []float32

	status COOStatus
}

// NewCOO returns an empty rows×cols coordinate matrix with room for
// capacity entries.
func NewCOO(rows, cols, capacity int) *COO {
	return &COO{
		Rows:   rows,
		Cols:   cols,
		RowIdx: make([]uint32, 0, capacity),
		ColIdx: make([]uint32, 0, capacity),
		Values: make([]float32, 0, capacity),
	}
}

// NNZ returns the number of entries.
func (c *COO) NNZ() int { return len(c.Values) }

// Status reports the sort state.
func (c *COO) Status() COOStatus { return c.status }

// Insert appends an entry. It returns ErrOutOfRange when (row, col) lies
// outside the shape.
func (c *COO) Insert(row, col uint32, v float32) error {
	if int64(row) >= int64(c.Rows) || int64(col) >= int64(c.Cols) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, row, col, c.Rows, c.Cols)
	}
	c.RowIdx = append(c.RowIdx, row)
	c.ColIdx = append(c.ColIdx, col)
	c.Values = append(c.Values, v)
	c.status = Unsorted
	return nil
}

// Sort orders the entries by (row, col). The sort is stable, so duplicate
// coordinates keep their insertion order.
func (c *COO) Sort() {
	n := len(c.Values)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		if r := cmp.Compare(c.RowIdx[a], c.RowIdx[b]); r != 0 {
			return r
		}
		return cmp.Compare(c.ColIdx[a], c.ColIdx[b])
	})

	rows := make([]uint32, n)
	cols := make([]uint32, n)
	vals := make([]float32, n)
	for i, from := range perm {
		rows[i] = c.RowIdx[from]
		cols[i] = c.ColIdx[from]
		vals[i] = c.Values[from]
	}
	c.RowIdx, c.ColIdx, c.Values = rows, cols, vals
	c.status = Sorted
}

// ToCSR converts the matrix, sorting it first if needed. Duplicate
// coordinates are rejected with ErrNotMonotone rather than summed.
func (c *COO) ToCSR() (*CSR, error) {
	if c.status != Sorted {
		c.Sort()
	}
	nnz := len(c.Values)
	m := &CSR{
		Rows:       c.Rows,
		Cols:       c.Cols,
		RowOffsets: make([]int, c.Rows+1),
		ColIndices: append(make([]uint32, 0, nnz), c.ColIdx...),
		Values:     append(make([]float32, 0, nnz), c.Values...),
	}

	scan := 0
	for row := 0; row < c.Rows; row++ {
		m.RowOffsets[row] = scan
		start := scan
		for scan < nnz && int(c.RowIdx[scan]) == row {
			if scan > start && c.ColIdx[scan-1] >= c.ColIdx[scan] {
				return nil, fmt.Errorf("%w: row %d column %d", ErrNotMonotone, row, c.ColIdx[scan])
			}
			scan++
		}
	}
	m.RowOffsets[c.Rows] = nnz
	return m, nil
}
