package sparse

// Transpose returns mᵀ. Rows of the result are sorted regardless of the
// column order inside m's rows.
func Transpose(m *CSR) *CSR {
	nnz := m.NNZ()
	t := &CSR{
		Rows:       m.Cols,
		Cols:       m.Rows,
		RowOffsets: make([]int, m.Cols+1),
		ColIndices: make([]uint32, nnz),
		Values:     make([]float32, nnz),
	}

	// Count entries per column, then prefix sum into row starts of t.
	for _, c := range m.ColIndices[:nnz] {
		t.RowOffsets[c+1]++
	}
	for i := 0; i < m.Cols; i++ {
		t.RowOffsets[i+1] += t.RowOffsets[i]
	}

	fill := make([]int, m.Cols)
	copy(fill, t.RowOffsets[:m.Cols])
	for r := 0; r < m.Rows; r++ {
		cols, vals := m.Row(r)
		for i, c := range cols {
			pos := fill[c]
			t.ColIndices[pos] = uint32(r)
			t.Values[pos] = vals[i]
			fill[c]++
		}
	}
	return t
}

// SortRows returns a copy of m with every row's entries ordered by column.
// Duplicate columns inside a row are kept, so the result only satisfies
// Validate when m had none.
func SortRows(m *CSR) *CSR {
	return Transpose(Transpose(m))
}
