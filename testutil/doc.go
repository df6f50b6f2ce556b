// Package testutil provides testing utilities for spgemm.
//
// This package is intended for use in tests, benchmarks and the generate
// command. It provides a seeded random source, random sparse matrix
// generation and a straightforward reference product.
//
// # Random Matrices
//
//	rng := testutil.NewRNG(741)
//	a := testutil.RandomCSR(rng, 1000, 1000, 20000, 0)
//
// uniqueCols > 0 restricts columns to that many evenly spaced values, which
// produces heavy column overlap between rows.
//
// # Reference Product
//
//	want := testutil.ReferenceMultiply(a, b)
//	got, _ := spgemm.Multiply(ctx, a, b)
//	got.AlmostEqual(want, 1e-3)
package testutil
