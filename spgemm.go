package spgemm

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/spgemm/internal/engine"
	"github.com/hupe1980/spgemm/internal/symbolic"
	"github.com/hupe1980/spgemm/sparse"
)

// Bounds are the output size estimates for a product.
type Bounds struct {
	// Row[r] is min(n, Σ len(B row k)) over the columns k of A row r.
	Row []int
	// Total is the sum of Row.
	Total int
	// MaxRow is the largest entry of Row.
	MaxRow int
	// MaxRowWork is the largest uncapped sum, the most entries any row
	// pushes through an engine.
	MaxRowWork int
	// MaxDegree is the largest row length of A.
	MaxDegree int
}

// EstimateRowBound computes upper bounds on the row lengths of a·b. The
// operands must have matching inner dimensions.
func EstimateRowBound(a, b *sparse.CSR) Bounds {
	n := b.Cols
	bd := Bounds{Row: make([]int, a.Rows)}
	for r := 0; r < a.Rows; r++ {
		cols, _ := a.Row(r)
		work := 0
		for _, k := range cols {
			work += b.RowLen(int(k))
		}
		bound := min(work, n)

		bd.Row[r] = bound
		bd.Total += bound
		bd.MaxRow = max(bd.MaxRow, bound)
		bd.MaxRowWork = max(bd.MaxRowWork, work)
		bd.MaxDegree = max(bd.MaxDegree, len(cols))
	}
	return bd
}

// ctxCheckRows is how often the row loops look at the context.
const ctxCheckRows = 1024

// parallelChunk is the number of rows a worker claims at a time.
const parallelChunk = 128

// Multiply computes a·b.
//
// Operands are not validated beyond shape; rows must be sorted and
// duplicate-free (see sparse.CSR.Validate).
func Multiply(ctx context.Context, a, b *sparse.CSR, optFns ...Option) (*sparse.CSR, error) {
	o := applyOptions(optFns)
	start := time.Now()

	c, stats, err := multiply(ctx, a, b, o)

	duration := time.Since(start)
	o.metricsCollector.RecordMultiply(stats, duration, err)
	o.logger.WithEngine(o.engine.String()).LogMultiply(ctx, stats, duration, err)
	return c, err
}

func multiply(ctx context.Context, a, b *sparse.CSR, o options) (*sparse.CSR, MultiplyStats, error) {
	stats := MultiplyStats{EngineName: o.engine.String(), Merger: o.merger.Name(), Workers: max(o.workers, 1)}
	if a == nil || b == nil {
		return nil, stats, ErrNilMatrix
	}
	if a.Cols != b.Rows {
		return nil, stats, &ErrDimensionMismatch{Expected: a.Cols, Actual: b.Rows}
	}
	stats.Rows, stats.Cols = a.Rows, b.Cols

	bounds := EstimateRowBound(a, b)
	stats.BoundTotal = bounds.Total

	var (
		c   *sparse.CSR
		es  engine.Stats
		err error
	)
	if o.workers > 1 && a.Rows > parallelChunk {
		c, es, err = multiplyParallel(ctx, a, b, bounds, o)
	} else {
		stats.Workers = 1
		c, es, err = multiplySequential(ctx, a, b, bounds, o)
	}
	if err != nil {
		return nil, stats, err
	}

	stats.NNZ = c.NNZ()
	stats.Engine = EngineStats(es)
	return c, stats, nil
}

func multiplySequential(ctx context.Context, a, b *sparse.CSR, bounds Bounds, o options) (*sparse.CSR, engine.Stats, error) {
	outBytes := int64(bounds.Total) * 8
	if err := o.resources.AcquireMemory(ctx, outBytes); err != nil {
		return nil, engine.Stats{}, fmt.Errorf("output buffers: %w", err)
	}
	defer o.resources.ReleaseMemory(outBytes)

	eng, release, err := newRowEngine(ctx, o.engine, o.merger, bounds, b.Cols, o.resources)
	if err != nil {
		return nil, engine.Stats{}, err
	}
	defer release()

	c := &sparse.CSR{Rows: a.Rows, Cols: b.Cols, RowOffsets: make([]int, a.Rows+1)}
	idx := make([]uint32, bounds.Total)
	val := make([]float32, bounds.Total)

	fill := 0
	for r := 0; r < a.Rows; r++ {
		if r%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, engine.Stats{}, err
			}
		}
		c.RowOffsets[r] = fill
		aCols, aVals := a.Row(r)
		end := fill + bounds.Row[r]
		fill += eng.Row(aCols, aVals, b, idx[fill:end:end], val[fill:end:end])
	}
	c.RowOffsets[a.Rows] = fill
	c.ColIndices = slices.Clip(idx[:fill])
	c.Values = slices.Clip(val[:fill])

	return c, eng.Stats(), nil
}

// multiplyParallel counts every row exactly, fixes the offsets, then fills
// disjoint row slices on o.workers goroutines with one engine each.
func multiplyParallel(ctx context.Context, a, b *sparse.CSR, bounds Bounds, o options) (*sparse.CSR, engine.Stats, error) {
	symStart := time.Now()
	counts, err := symbolic.RowCounts(ctx, a, b, o.workers)
	if err != nil {
		return nil, engine.Stats{}, err
	}
	offsets := symbolic.Offsets(counts)
	nnz := offsets[a.Rows]
	o.logger.LogSymbolic(ctx, nnz, time.Since(symStart))

	outBytes := int64(nnz) * 8
	if err := o.resources.AcquireMemory(ctx, outBytes); err != nil {
		return nil, engine.Stats{}, fmt.Errorf("output buffers: %w", err)
	}
	defer o.resources.ReleaseMemory(outBytes)

	idx := make([]uint32, nnz)
	val := make([]float32, nnz)

	workerStats := make([]engine.Stats, o.workers)
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := range o.workers {
		g.Go(func() error {
			if err := o.resources.AcquireWorker(gctx); err != nil {
				return err
			}
			defer o.resources.ReleaseWorker()

			eng, release, err := newRowEngine(gctx, o.engine, o.merger, bounds, b.Cols, o.resources)
			if err != nil {
				return err
			}
			defer release()

			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				lo := int(next.Add(parallelChunk)) - parallelChunk
				if lo >= a.Rows {
					break
				}
				for r := lo; r < min(lo+parallelChunk, a.Rows); r++ {
					s, e := offsets[r], offsets[r+1]
					aCols, aVals := a.Row(r)
					if n := eng.Row(aCols, aVals, b, idx[s:e:e], val[s:e:e]); n != e-s {
						panic(fmt.Sprintf("spgemm: row %d produced %d entries, symbolic count %d", r, n, e-s))
					}
				}
			}
			workerStats[w] = eng.Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, engine.Stats{}, err
	}

	var total engine.Stats
	for _, s := range workerStats {
		total.Add(s)
	}
	return &sparse.CSR{
		Rows:       a.Rows,
		Cols:       b.Cols,
		RowOffsets: offsets,
		ColIndices: idx,
		Values:     val,
	}, total, nil
}
