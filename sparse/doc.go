// Package sparse provides the compressed sparse row (CSR) and coordinate list
// (COO) matrix representations used by spgemm.
//
// Column indices are uint32 and values float32. A CSR is built once and then
// treated as immutable; every row's column slice is strictly increasing.
//
// # Equality
//
// Two comparisons are provided:
//
//   - Equal: shape, row offsets, column indices and values all identical.
//   - AlmostEqual: structure identical, values within an absolute tolerance.
//
// Compare reports the first difference as a *MismatchError, which is what the
// verify command prints.
package sparse
