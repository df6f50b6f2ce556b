package engine

import (
	"context"
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/spgemm/internal/arena"
	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/sparse"
	"github.com/hupe1980/spgemm/testutil"
)

// rowBounds returns min(n, Σ len(B row k)) per A row plus the largest
// bound, uncapped work and A degree.
func rowBounds(a, b *sparse.CSR) (bounds []int, maxBound, maxWork, maxDeg int) {
	bounds = make([]int, a.Rows)
	for r := 0; r < a.Rows; r++ {
		cols, _ := a.Row(r)
		work := 0
		for _, k := range cols {
			work += b.RowLen(int(k))
		}
		bounds[r] = min(work, b.Cols)
		maxBound = max(maxBound, bounds[r])
		maxWork = max(maxWork, work)
		maxDeg = max(maxDeg, len(cols))
	}
	return bounds, maxBound, maxWork, maxDeg
}

type factory func(t testing.TB, a, b *sparse.CSR) RowEngine

func engines() map[string]factory {
	stackWith := func(m merge.Merger) factory {
		return func(t testing.TB, a, b *sparse.CSR) RowEngine {
			_, maxBound, maxWork, maxDeg := rowBounds(a, b)
			s, err := NewStack(context.Background(), maxDeg, ArenaCapacity(maxBound, maxWork), m, nil)
			require.NoError(t, err)
			return s
		}
	}
	return map[string]factory{
		"heap": func(t testing.TB, a, b *sparse.CSR) RowEngine {
			_, _, _, maxDeg := rowBounds(a, b)
			return NewHeap(maxDeg)
		},
		"stack/scalar": stackWith(merge.Scalar{}),
		"stack/vector": stackWith(merge.Vector{}),
		"dense": func(t testing.TB, a, b *sparse.CSR) RowEngine {
			return NewDense(b.Cols)
		},
	}
}

func multiply(e RowEngine, a, b *sparse.CSR) *sparse.CSR {
	bounds, _, _, _ := rowBounds(a, b)
	total := 0
	for _, n := range bounds {
		total += n
	}
	c := sparse.NewCSR(a.Rows, b.Cols)
	idx := make([]uint32, total)
	val := make([]float32, total)
	fill := 0
	for r := 0; r < a.Rows; r++ {
		c.RowOffsets[r] = fill
		aCols, aVals := a.Row(r)
		end := fill + bounds[r]
		fill += e.Row(aCols, aVals, b, idx[fill:end:end], val[fill:end:end])
	}
	c.RowOffsets[a.Rows] = fill
	c.ColIndices = idx[:fill]
	c.Values = val[:fill]
	return c
}

func TestEngines_TwoByTwo(t *testing.T) {
	a := sparse.FromDense([][]float32{{2, 0}, {0, 3}})
	b := sparse.FromDense([][]float32{{1, 5}, {0, 4}})

	for name, newEngine := range engines() {
		t.Run(name, func(t *testing.T) {
			c := multiply(newEngine(t, a, b), a, b)
			require.NoError(t, c.Validate())
			assert.Equal(t, [][]float32{{2, 10}, {0, 12}}, c.ToDense())
			assert.Equal(t, []int{0, 2, 3}, c.RowOffsets)
		})
	}
}

func TestEngines_EmptyRows(t *testing.T) {
	// Row 0 of A is empty; row 1 only references an empty row of B.
	a := sparse.FromDense([][]float32{{0, 0, 0}, {0, 1, 0}, {1, 0, 1}})
	b := sparse.FromDense([][]float32{{1, 0}, {0, 0}, {0, 2}})

	for name, newEngine := range engines() {
		t.Run(name, func(t *testing.T) {
			c := multiply(newEngine(t, a, b), a, b)
			require.NoError(t, c.Validate())
			assert.Equal(t, c.RowOffsets[0], c.RowOffsets[1])
			assert.Equal(t, c.RowOffsets[1], c.RowOffsets[2])
			assert.Equal(t, [][]float32{{0, 0}, {0, 0}, {1, 2}}, c.ToDense())
		})
	}
}

func TestEngines_DuplicateColumnAccumulates(t *testing.T) {
	// A row has nonzeros at columns 1 and 3; both B rows hold column 7.
	a := sparse.NewCSR(1, 4)
	a.ColIndices = []uint32{1, 3}
	a.Values = []float32{2, -0.5}
	a.RowOffsets[1] = 2

	b := sparse.NewCSR(4, 10)
	b.RowOffsets = []int{0, 0, 3, 3, 5}
	b.ColIndices = []uint32{2, 7, 9, 0, 7}
	b.Values = []float32{1, 4, 1, 6, 10}

	for name, newEngine := range engines() {
		t.Run(name, func(t *testing.T) {
			c := multiply(newEngine(t, a, b), a, b)
			require.NoError(t, c.Validate())
			assert.Equal(t, []uint32{0, 2, 7, 9}, c.ColIndices)
			assert.InDeltaSlice(t, []float32{-3, 2, 2*4 + (-0.5)*10, 2}, c.Values, 1e-6)
		})
	}
}

func TestEngines_MatchReference(t *testing.T) {
	shapes := []struct {
		m, k, n, nnzA, nnzB, uniqueCols int
	}{
		{40, 40, 40, 200, 200, 0},
		{64, 30, 500, 600, 2000, 0},
		{30, 30, 64, 300, 400, 4},  // heavy overlap
		{10, 200, 8, 1000, 800, 0}, // rows capped by n
		{1, 1, 1, 1, 1, 0},
	}
	for i, s := range shapes {
		rng := testutil.NewRNG(int64(100 + i))
		a := testutil.RandomCSR(rng, s.m, s.k, s.nnzA, 0)
		b := testutil.RandomCSR(rng, s.k, s.n, s.nnzB, s.uniqueCols)
		want := testutil.ReferenceMultiply(a, b)

		for name, newEngine := range engines() {
			t.Run(fmt.Sprintf("%s/%d", name, i), func(t *testing.T) {
				c := multiply(newEngine(t, a, b), a, b)
				require.NoError(t, c.Validate())
				require.NoError(t, sparse.Compare(want, c, 1e-3))
			})
		}
	}
}

func TestEngines_PatternIdentical(t *testing.T) {
	rng := testutil.NewRNG(77)
	a := testutil.RandomRowsCSR(rng, 50, 60, func(r int) int { return r % 17 })
	b := testutil.RandomRowsCSR(rng, 60, 90, func(r int) int { return (r * 7) % 23 })

	var ref *sparse.CSR
	for name, newEngine := range engines() {
		c := multiply(newEngine(t, a, b), a, b)
		if ref == nil {
			ref = c
			continue
		}
		assert.Equal(t, ref.RowOffsets, c.RowOffsets, name)
		assert.Equal(t, ref.ColIndices, c.ColIndices, name)
		assert.True(t, ref.AlmostEqual(c, 1e-3), name)
	}
}

func TestEngines_WritePastBoundPanics(t *testing.T) {
	a := sparse.FromDense([][]float32{{1, 1}})
	b := sparse.FromDense([][]float32{{1, 0, 1}, {0, 1, 0}})

	for name, newEngine := range engines() {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, a, b)
			aCols, aVals := a.Row(0)
			idx := make([]uint32, 2)
			val := make([]float32, 2)
			assert.Panics(t, func() { e.Row(aCols, aVals, b, idx, val) })
		})
	}
}

func TestHeap_DegreeOverCapacityPanics(t *testing.T) {
	b := sparse.FromDense([][]float32{{1}, {1}, {1}})
	h := NewHeap(2)
	idx := make([]uint32, 1)
	val := make([]float32, 1)
	assert.Panics(t, func() {
		h.Row([]uint32{0, 1, 2}, []float32{1, 1, 1}, b, idx, val)
	})
}

func TestStack_BalanceInvariant(t *testing.T) {
	rng := testutil.NewRNG(3)
	b := testutil.RandomRowsCSR(rng, 200, 400, func(r int) int { return 1 + (r*37)%50 })

	s, err := NewStack(context.Background(), 200, 4*400+b.NNZ(), merge.Scalar{}, nil)
	require.NoError(t, err)

	for k := 0; k < b.Rows; k++ {
		bIdx, bVal := b.Row(k)
		s.push(bIdx, bVal, 1)
		s.balance()

		d := len(s.runs)
		for i := 1; i < d; i++ {
			// Runs sit above each other in offset order.
			require.GreaterOrEqual(t, s.runs[i].Off, s.runs[i-1].End())
		}
		if d >= 2 {
			require.Less(t, s.runs[d-1].Len, s.runs[d-2].Len)
		}
		if d >= 3 {
			require.Less(t, s.runs[d-1].Len+s.runs[d-2].Len, s.runs[d-3].Len)
		}
		if d >= 4 {
			require.Less(t, s.runs[d-2].Len+s.runs[d-3].Len, s.runs[d-4].Len)
		}
		require.LessOrEqual(t, s.runs[d-1].End(), s.scratch.Cap())
	}

	stats := s.Stats()
	assert.Equal(t, int64(200), stats.Pushes)
	assert.Positive(t, stats.Merges)
	assert.LessOrEqual(t, stats.MaxDepth, int64(20))
}

// backFillMerger merges from the tails of both runs into the end of c and
// then shifts the result to the front. It is correct for disjoint buffers
// only, and counts calls whose output overlaps an input.
type backFillMerger struct {
	overlaps *int
}

func (backFillMerger) Name() string { return "backfill" }

func (m backFillMerger) Merge(aIdx []uint32, aVal []float32, bIdx []uint32, bVal []float32, cIdx []uint32, cVal []float32) int {
	if overlaps(cIdx, aIdx) || overlaps(cIdx, bIdx) || overlaps(cVal, aVal) || overlaps(cVal, bVal) {
		*m.overlaps++
	}
	i, j, k := len(aIdx)-1, len(bIdx)-1, len(aIdx)+len(bIdx)
	for i >= 0 || j >= 0 {
		k--
		switch {
		case j < 0 || (i >= 0 && aIdx[i] > bIdx[j]):
			cIdx[k], cVal[k] = aIdx[i], aVal[i]
			i--
		case i < 0 || bIdx[j] > aIdx[i]:
			cIdx[k], cVal[k] = bIdx[j], bVal[j]
			j--
		default:
			cIdx[k], cVal[k] = aIdx[i], aVal[i]+bVal[j]
			i--
			j--
		}
	}
	n := copy(cIdx, cIdx[k:len(aIdx)+len(bIdx)])
	copy(cVal, cVal[k:len(aIdx)+len(bIdx)])
	return n
}

func overlaps[T any](x, y []T) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	size := unsafe.Sizeof(x[0])
	x0 := uintptr(unsafe.Pointer(&x[0]))
	y0 := uintptr(unsafe.Pointer(&y[0]))
	return x0 < y0+uintptr(len(y))*size && y0 < x0+uintptr(len(x))*size
}

func TestBackFillMerger_DisjointContract(t *testing.T) {
	var n int
	m := backFillMerger{overlaps: &n}
	cIdx := make([]uint32, 5)
	cVal := make([]float32, 5)
	got := m.Merge([]uint32{1, 3, 5}, []float32{1, 1, 1}, []uint32{2, 3}, []float32{2, 2}, cIdx, cVal)
	assert.Equal(t, 4, got)
	assert.Equal(t, []uint32{1, 2, 3, 5}, cIdx[:got])
	assert.Equal(t, []float32{1, 2, 3, 1}, cVal[:got])
	assert.Zero(t, n)
}

func TestStack_MergeWindowsNeverOverlapInputs(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rng := testutil.NewRNG(seed)
		a := testutil.RandomCSR(rng, 40, 40, 400, 0)
		b := testutil.RandomCSR(rng, 40, 60, 600, 0)

		var n int
		_, maxBound, maxWork, maxDeg := rowBounds(a, b)
		s, err := NewStack(context.Background(), maxDeg, ArenaCapacity(maxBound, maxWork), backFillMerger{overlaps: &n}, nil)
		require.NoError(t, err)

		c := multiply(s, a, b)
		require.NoError(t, c.Validate())
		require.NoError(t, sparse.Compare(testutil.ReferenceMultiply(a, b), c, 1e-3))
		assert.Zero(t, n, "seed %d", seed)
		assert.Positive(t, s.Stats().Merges)
	}
}

func TestStack_StatsAndClose(t *testing.T) {
	a := sparse.FromDense([][]float32{{1, 1, 1, 1}})
	b := sparse.FromDense([][]float32{{1, 0}, {0, 1}, {1, 1}, {1, 0}})

	acq := &budget{}
	s, err := NewStack(context.Background(), 4, ArenaCapacity(2, 5), merge.Vector{}, acq)
	require.NoError(t, err)
	assert.Equal(t, "stack/vector", s.Name())
	assert.Equal(t, arena.Bytes(8), acq.used)

	c := multiply(s, a, b)
	assert.Equal(t, [][]float32{{3, 2}}, c.ToDense())

	st := s.Stats()
	assert.Equal(t, int64(1), st.Rows)
	assert.Equal(t, int64(4), st.Pushes)
	assert.Equal(t, int64(3), st.Merges+st.ForceMerges)
	assert.Equal(t, int64(2), st.Emitted)

	s.Close()
	assert.Zero(t, acq.used)
}

func TestStats_Add(t *testing.T) {
	var total Stats
	total.Add(Stats{Rows: 2, Emitted: 5, MaxDepth: 3, HeapFixes: 1})
	total.Add(Stats{Rows: 1, Emitted: 1, MaxDepth: 2, Touched: 4})
	assert.Equal(t, Stats{Rows: 3, Emitted: 6, MaxDepth: 3, HeapFixes: 1, Touched: 4}, total)
}

type budget struct{ used int64 }

func (b *budget) AcquireMemory(_ context.Context, n int64) error { b.used += n; return nil }
func (b *budget) ReleaseMemory(n int64)                          { b.used -= n }

func BenchmarkEngines(b *testing.B) {
	rng := testutil.NewRNG(testutil.DefaultSeed)
	a := testutil.RandomCSR(rng, 2000, 2000, 40000, 0)
	bm := testutil.RandomCSR(rng, 2000, 2000, 40000, 0)

	for name, newEngine := range engines() {
		b.Run(name, func(b *testing.B) {
			e := newEngine(b, a, bm)
			for b.Loop() {
				multiply(e, a, bm)
			}
		})
	}
}
