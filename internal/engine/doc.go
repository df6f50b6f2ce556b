// Package engine implements the row accumulation engines of the sparse
// product.
//
// An engine computes one row of C = A·B: given the column indices and
// values of one row of A, it merges the B rows they select, each scaled by
// its A value, into a sorted, duplicate-free output row.
//
//   - Heap: k-way merge driven by a cursor heap with fused replace-top.
//   - Stack: scaled runs pushed onto a run stack and merged pairwise under
//     a balance policy, ping-ponging between two arenas.
//   - Dense: accumulates into a dense row and sorts the touched columns.
//
// Engines own their scratch and are not safe for concurrent use; run one
// engine per goroutine. Output slices must be cut to the row bound: an
// engine that would write past it panics.
package engine
