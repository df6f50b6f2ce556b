// Package symbolic computes the exact sparsity pattern of product rows.
//
// The parallel multiply needs every row's exact length before any worker
// writes output, so row offsets can be fixed by a prefix sum. Patterns are
// built as roaring bitmaps of the union of the selected B rows.
package symbolic
