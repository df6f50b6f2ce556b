package engine

import (
	"github.com/hupe1980/spgemm/internal/bitset"
	"github.com/hupe1980/spgemm/sparse"
)

// Dense accumulates into a dense row of width n and emits the touched
// columns in sorted order. It is the baseline the sparse engines are
// measured against.
type Dense struct {
	acc   []float32
	occ   *bitset.Occupancy
	stats Stats
}

var _ RowEngine = (*Dense)(nil)

// NewDense returns a dense engine for products with n columns.
func NewDense(n int) *Dense {
	return &Dense{
		acc: make([]float32, n),
		occ: bitset.NewOccupancy(n),
	}
}

// Name implements RowEngine.
func (d *Dense) Name() string { return "dense" }

// Stats implements RowEngine.
func (d *Dense) Stats() Stats { return d.stats }

// Row implements RowEngine.
func (d *Dense) Row(aCols []uint32, aVals []float32, b *sparse.CSR, outIdx []uint32, outVal []float32) int {
	d.stats.Rows++
	for i, k := range aCols {
		alpha := aVals[i]
		bIdx, bVal := b.Row(int(k))
		for j, c := range bIdx {
			v := alpha * bVal[j]
			if d.occ.TestAndSet(c) {
				d.acc[c] += v
			} else {
				d.acc[c] = v
			}
		}
		d.stats.Touched += int64(len(bIdx))
	}

	cols := d.occ.Sorted()
	n := copy(outIdx[:len(cols)], cols)
	for i, c := range cols {
		outVal[i] = d.acc[c]
	}
	d.occ.Reset()

	d.stats.Emitted += int64(n)
	return n
}
