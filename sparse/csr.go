package sparse

import "fmt"

// CSR is a compressed sparse row matrix.
//
// RowOffsets has Rows+1 entries, RowOffsets[0] == 0 and
// RowOffsets[Rows] == len(ColIndices) == len(Values). Row r occupies
// [RowOffsets[r], RowOffsets[r+1]) of ColIndices and Values.
type CSR struct {
	Rows       int
	Cols       int
	RowOffsets []int
	ColIndices []uint32
	Values     []float32
}

// NewCSR returns an empty rows×cols matrix.
func NewCSR(rows, cols int) *CSR {
	return &CSR{
		Rows:       rows,
		Cols:       cols,
		RowOffsets: make([]int, rows+1),
	}
}

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int {
	if len(m.RowOffsets) == 0 {
		return 0
	}
	return m.RowOffsets[m.Rows]
}

// Row returns the column indices and values of row r. The slices alias the
// matrix storage.
func (m *CSR) Row(r int) ([]uint32, []float32) {
	lo, hi := m.RowOffsets[r], m.RowOffsets[r+1]
	return m.ColIndices[lo:hi:hi], m.Values[lo:hi:hi]
}

// RowLen returns the number of entries stored in row r.
func (m *CSR) RowLen(r int) int {
	return m.RowOffsets[r+1] - m.RowOffsets[r]
}

// MaxRowLen returns the largest row length.
func (m *CSR) MaxRowLen() int {
	best := 0
	for r := 0; r < m.Rows; r++ {
		if l := m.RowLen(r); l > best {
			best = l
		}
	}
	return best
}

// Validate checks the structural invariants of the matrix.
func (m *CSR) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: negative shape %dx%d", ErrMalformed, m.Rows, m.Cols)
	}
	if len(m.RowOffsets) != m.Rows+1 {
		return fmt.Errorf("%w: %d row offsets for %d rows", ErrMalformed, len(m.RowOffsets), m.Rows)
	}
	if m.RowOffsets[0] != 0 {
		return fmt.Errorf("%w: first row offset is %d", ErrMalformed, m.RowOffsets[0])
	}
	nnz := m.RowOffsets[m.Rows]
	if len(m.ColIndices) != nnz || len(m.Values) != nnz {
		return fmt.Errorf("%w: nnz %d but %d indices and %d values", ErrMalformed, nnz, len(m.ColIndices), len(m.Values))
	}
	for r := 0; r < m.Rows; r++ {
		if m.RowOffsets[r+1] < m.RowOffsets[r] || m.RowOffsets[r+1] > nnz {
			return fmt.Errorf("%w: row offsets not monotone at row %d", ErrMalformed, r)
		}
	}
	for r := 0; r < m.Rows; r++ {
		lo, hi := m.RowOffsets[r], m.RowOffsets[r+1]
		for i := lo; i < hi; i++ {
			c := m.ColIndices[i]
			if int64(c) >= int64(m.Cols) {
				return fmt.Errorf("%w: row %d column %d >= %d", ErrOutOfRange, r, c, m.Cols)
			}
			if i > lo && m.ColIndices[i-1] >= c {
				return fmt.Errorf("%w: row %d columns %d, %d", ErrNotMonotone, r, m.ColIndices[i-1], c)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m *CSR) Clone() *CSR {
	return &CSR{
		Rows:       m.Rows,
		Cols:       m.Cols,
		RowOffsets: append([]int(nil), m.RowOffsets...),
		ColIndices: append([]uint32(nil), m.ColIndices...),
		Values:     append([]float32(nil), m.Values...),
	}
}

// Equal reports whether m and o are identical.
func (m *CSR) Equal(o *CSR) bool {
	return Compare(m, o, 0) == nil && valuesIdentical(m.Values[:m.NNZ()], o.Values[:o.NNZ()])
}

// AlmostEqual reports whether m and o have identical structure and values
// differing by less than tol.
func (m *CSR) AlmostEqual(o *CSR, tol float32) bool {
	return Compare(m, o, tol) == nil
}

func valuesIdentical(a, b []float32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare returns nil when got matches want, otherwise a *MismatchError for
// the first difference. Values match when |want-got| < tol, or when they are
// identical (so tol == 0 means exact).
func Compare(want, got *CSR, tol float32) error {
	if want.Rows != got.Rows || want.Cols != got.Cols || want.NNZ() != got.NNZ() {
		return &MismatchError{
			Field: "shape",
			Pos:   -1,
			Want:  fmt.Sprintf("%dx%d nnz=%d", want.Rows, want.Cols, want.NNZ()),
			Got:   fmt.Sprintf("%dx%d nnz=%d", got.Rows, got.Cols, got.NNZ()),
		}
	}
	for i := range want.RowOffsets {
		if want.RowOffsets[i] != got.RowOffsets[i] {
			return &MismatchError{Field: "rowOffsets", Pos: i, Want: fmt.Sprint(want.RowOffsets[i]), Got: fmt.Sprint(got.RowOffsets[i])}
		}
	}
	nnz := want.NNZ()
	for i := range nnz {
		if want.ColIndices[i] != got.ColIndices[i] {
			return &MismatchError{Field: "colIndices", Pos: i, Want: fmt.Sprint(want.ColIndices[i]), Got: fmt.Sprint(got.ColIndices[i])}
		}
	}
	for i := range nnz {
		w, g := want.Values[i], got.Values[i]
		if w == g {
			continue
		}
		if w-g < tol && g-w < tol {
			continue
		}
		return &MismatchError{Field: "values", Pos: i, Want: fmt.Sprint(w), Got: fmt.Sprint(g)}
	}
	return nil
}

// ToDense expands the matrix into a row-major Rows×Cols slice.
func (m *CSR) ToDense() [][]float32 {
	out := make([][]float32, m.Rows)
	for r := range out {
		out[r] = make([]float32, m.Cols)
		cols, vals := m.Row(r)
		for i, c := range cols {
			out[r][c] = vals[i]
		}
	}
	return out
}

// FromDense builds a CSR from a row-major dense matrix, skipping zeros.
// All rows must have the same length.
func FromDense(d [][]float32) *CSR {
	rows := len(d)
	cols := 0
	if rows > 0 {
		cols = len(d[0])
	}
	m := NewCSR(rows, cols)
	for r, row := range d {
		for c, v := range row {
			if v != 0 {
				m.ColIndices = append(m.ColIndices, uint32(c))
				m.Values = append(m.Values, v)
			}
		}
		m.RowOffsets[r+1] = len(m.ColIndices)
	}
	return m
}

// String returns a short description, not the contents.
func (m *CSR) String() string {
	return fmt.Sprintf("CSR{%dx%d nnz=%d}", m.Rows, m.Cols, m.NNZ())
}
