// Package simd selects and dispatches the vector kernels used by the merge
// primitive.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// CPU features are detected at init with golang.org/x/sys/cpu. The vector
// kernels are written against github.com/ajroetker/go-highway, which picks
// the register width at runtime. Set SPGEMM_SIMD=generic to force the plain
// Go kernels.
//
// # Operations
//
//   - ScaleTo: dst = alpha * src
//   - CountLess: length of the prefix of a sorted key slice below a pivot
package simd
