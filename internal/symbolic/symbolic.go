package symbolic

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/spgemm/sparse"
)

// RowPattern is the column set of one product row.
type RowPattern struct {
	rb *roaring.Bitmap
}

// NewRowPattern creates an empty pattern.
func NewRowPattern() *RowPattern {
	return &RowPattern{rb: roaring.New()}
}

// Build replaces the pattern with the union of the B rows selected by aCols
// and returns its cardinality.
func (p *RowPattern) Build(aCols []uint32, b *sparse.CSR) int {
	p.rb.Clear()
	for _, k := range aCols {
		cols, _ := b.Row(int(k))
		p.rb.AddMany(cols)
	}
	return int(p.rb.GetCardinality())
}

// Cardinality returns the number of columns in the pattern.
func (p *RowPattern) Cardinality() int {
	return int(p.rb.GetCardinality())
}

// Contains reports whether column c is in the pattern.
func (p *RowPattern) Contains(c uint32) bool {
	return p.rb.Contains(c)
}

// Columns returns the pattern in ascending order.
func (p *RowPattern) Columns() []uint32 {
	return p.rb.ToArray()
}

// chunkRows is the number of rows a worker claims at a time.
const chunkRows = 256

// RowCounts returns the exact entry count of every row of a·b using up to
// workers goroutines.
func RowCounts(ctx context.Context, a, b *sparse.CSR, workers int) ([]int, error) {
	counts := make([]int, a.Rows)
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < a.Rows; lo += chunkRows {
		hi := min(lo+chunkRows, a.Rows)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := NewRowPattern()
			for r := lo; r < hi; r++ {
				cols, _ := a.Row(r)
				counts[r] = p.Build(cols, b)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Offsets turns row counts into CSR row offsets.
func Offsets(counts []int) []int {
	offsets := make([]int, len(counts)+1)
	for r, n := range counts {
		offsets[r+1] = offsets[r] + n
	}
	return offsets
}
