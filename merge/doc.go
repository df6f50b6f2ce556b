// Package merge implements the two-way sparse run merge used by the stack
// row engine.
//
// A run is a pair of aligned slices (column indices, values) with strictly
// increasing indices. Merging two runs yields their sorted index union with
// the values of shared indices summed.
//
// Two implementations satisfy the same Merger contract:
//
//   - Scalar: a classic two-pointer merge.
//   - Vector: bulk-copies the stretch of one run that sorts before the other
//     run's head, with the stretch length found by lane-wide compares.
//
// Both produce the same index pattern. Values of shared indices are summed
// as a+b in both, so results are identical too, but callers should only rely
// on agreement up to float tolerance.
//
// # Aliasing
//
// The output must not overlap either input. Callers keep the buffers
// disjoint; implementations are free to write the output in any order.
package merge
