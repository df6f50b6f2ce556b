package simd

import "github.com/ajroetker/go-highway/hwy"

func scaleToHwy(dst, src []float32, alpha float32) {
	lanes := hwy.MaxLanes[float32]()
	va := hwy.Set(alpha)

	i := 0
	for ; i+lanes <= len(src); i += lanes {
		hwy.Store(hwy.Mul(hwy.Load(src[i:]), va), dst[i:])
	}
	if i < len(src) {
		tail := hwy.FirstN[float32](len(src) - i)
		hwy.MaskStore(tail, hwy.Mul(hwy.MaskLoad(tail, src[i:]), va), dst[i:])
	}
}

// countLessHwy relies on keys being ascending: within one block the lanes
// below pivot form a prefix, so CountTrue is the prefix length.
func countLessHwy(keys []uint32, pivot uint32) int {
	lanes := hwy.MaxLanes[uint32]()
	vp := hwy.Set(pivot)

	n := 0
	for n+lanes <= len(keys) {
		c := hwy.LessThan(hwy.Load(keys[n:]), vp).CountTrue()
		n += c
		if c < lanes {
			return n
		}
	}
	for n < len(keys) && keys[n] < pivot {
		n++
	}
	return n
}
