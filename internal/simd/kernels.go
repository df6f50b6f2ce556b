package simd

import "github.com/ajroetker/go-highway/hwy"

// Kernel function pointers. They start as the generic implementations and
// are switched to the highway kernels by selectKernels.
var (
	kernelScaleTo   = scaleToGeneric
	kernelCountLess = countLessGeneric
)

func selectKernels() {
	if activeISA == Generic || hwy.NoSimdEnv() {
		kernelScaleTo = scaleToGeneric
		kernelCountLess = countLessGeneric
		return
	}
	kernelScaleTo = scaleToHwy
	kernelCountLess = countLessHwy
}

// Lanes returns the number of uint32 lanes processed per vector step, or 1
// for the generic kernels.
func Lanes() int {
	if !Vectorized() {
		return 1
	}
	return hwy.MaxLanes[uint32]()
}

// Target names the highway dispatch target, e.g. "avx2" or "fallback".
func Target() string {
	return hwy.CurrentName()
}

// ScaleTo writes alpha*src[i] into dst[i]. dst must be at least len(src)
// long. dst may be src itself or start before src in the same buffer.
func ScaleTo(dst, src []float32, alpha float32) {
	kernelScaleTo(dst[:len(src)], src, alpha)
}

// CountLess returns the number of leading elements of the ascending slice
// keys that are smaller than pivot.
func CountLess(keys []uint32, pivot uint32) int {
	return kernelCountLess(keys, pivot)
}

func scaleToGeneric(dst, src []float32, alpha float32) {
	for i, v := range src {
		dst[i] = v * alpha
	}
}

func countLessGeneric(keys []uint32, pivot uint32) int {
	n := 0
	for n < len(keys) && keys[n] < pivot {
		n++
	}
	return n
}
