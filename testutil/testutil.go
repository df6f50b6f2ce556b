package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/spgemm/sparse"
)

// DefaultSeed is the seed used by the generate command when none is given.
const DefaultSeed = 741

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// RandomCSR returns an m×n matrix with up to nnz distinct entries and
// values in [0, 1). With uniqueCols > 0 columns are drawn from uniqueCols
// evenly spaced values. nnz is clamped to the number of available cells.
func RandomCSR(rng *RNG, m, n, nnz, uniqueCols int) *sparse.CSR {
	if m == 0 || n == 0 {
		return sparse.NewCSR(m, n)
	}
	if uniqueCols <= 0 || uniqueCols > n {
		uniqueCols = n
	}
	nnz = max(0, min(nnz, m*uniqueCols))
	stride := n / uniqueCols

	rng.mu.Lock()
	defer rng.mu.Unlock()

	type cell struct{ row, col uint32 }
	cells := make([]cell, 0, nnz)
	total := m * uniqueCols
	if 2*nnz >= total {
		// Dense request: sample cells without replacement.
		for _, i := range rng.rand.Perm(total)[:nnz] {
			cells = append(cells, cell{row: uint32(i / uniqueCols), col: uint32(stride * (i % uniqueCols))})
		}
	} else {
		seen := make(map[cell]struct{}, nnz)
		for len(cells) < nnz {
			c := cell{
				row: uint32(rng.rand.Intn(m)),
				col: uint32(stride * rng.rand.Intn(uniqueCols)),
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cells = append(cells, c)
		}
	}

	coo := sparse.NewCOO(m, n, len(cells))
	for _, c := range cells {
		// Cells are inside the shape, Insert cannot fail.
		_ = coo.Insert(c.row, c.col, rng.rand.Float32())
	}

	csr, err := coo.ToCSR()
	if err != nil {
		panic(err) // unreachable: cells are distinct
	}
	return csr
}

// RandomRowsCSR returns an m×n matrix whose row r has exactly degree(r)
// distinct columns, which makes degree distributions easy to control.
func RandomRowsCSR(rng *RNG, m, n int, degree func(row int) int) *sparse.CSR {
	csr := sparse.NewCSR(m, n)
	rng.mu.Lock()
	defer rng.mu.Unlock()
	for r := 0; r < m; r++ {
		k := min(degree(r), n)
		cols := rng.rand.Perm(n)[:k]
		sort.Ints(cols)
		for _, c := range cols {
			csr.ColIndices = append(csr.ColIndices, uint32(c))
			csr.Values = append(csr.Values, rng.rand.Float32()*2-1)
		}
		csr.RowOffsets[r+1] = len(csr.ColIndices)
	}
	return csr
}

// ReferenceMultiply computes a·b with float64 accumulation. An output entry
// exists for every column reached by some product term, even if the terms
// cancel, matching what the row engines produce.
func ReferenceMultiply(a, b *sparse.CSR) *sparse.CSR {
	c := sparse.NewCSR(a.Rows, b.Cols)
	acc := map[uint32]float64{}
	var cols []uint32
	for r := 0; r < a.Rows; r++ {
		clear(acc)
		aCols, aVals := a.Row(r)
		for i, k := range aCols {
			bCols, bVals := b.Row(int(k))
			for j, col := range bCols {
				acc[col] += float64(aVals[i]) * float64(bVals[j])
			}
		}
		cols = cols[:0]
		for col := range acc {
			cols = append(cols, col)
		}
		sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })
		for _, col := range cols {
			c.ColIndices = append(c.ColIndices, col)
			c.Values = append(c.Values, float32(acc[col]))
		}
		c.RowOffsets[r+1] = len(c.ColIndices)
	}
	return c
}
