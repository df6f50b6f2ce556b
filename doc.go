// Package spgemm multiplies sparse matrices in compressed sparse row form.
//
// Multiply computes C = A·B with every row of C sorted by column and free of
// duplicates. Each output row is built by a row engine that merges the rows
// of B selected by the nonzeros of the matching A row.
//
// # Quick Start
//
//	ctx := context.Background()
//	c, err := spgemm.Multiply(ctx, a, b)
//
// # Engines
//
// Three engines produce identical sparsity patterns; values agree up to
// float32 rounding of the summation order:
//
//	// 1. STACK (default): adaptive run stack with two-way merges
//	c, _ := spgemm.Multiply(ctx, a, b, spgemm.WithEngine(spgemm.EngineStack))
//
//	// 2. HEAP: k-way merge with a cursor heap
//	c, _ := spgemm.Multiply(ctx, a, b, spgemm.WithEngine(spgemm.EngineHeap))
//
//	// 3. DENSE: dense accumulator baseline, O(n) scratch per worker
//	c, _ := spgemm.Multiply(ctx, a, b, spgemm.WithEngine(spgemm.EngineDense))
//
// The stack engine's two-way merge is pluggable (see package merge); by
// default the vectorized merge is used when the CPU supports it.
//
// # Parallelism
//
// WithWorkers(n) with n > 1 first counts every output row exactly, fixes the
// row offsets, then fills rows on n goroutines with per-worker scratch. The
// result is identical to the sequential path.
//
// # Sizing
//
// EstimateRowBound gives per-row upper bounds min(n, Σ len(B row k)). The
// sequential path allocates the output to the summed bound and trims it at
// the end. Engines never grow buffers; exceeding a bound is a bug and
// panics.
//
// # Persistence
//
// See package persistence for the binary layout and package blobstore for
// local and cloud matrix storage.
package spgemm
