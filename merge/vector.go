package merge

import "github.com/hupe1980/spgemm/internal/simd"

// Vector merges by stretches: whichever head is smaller, the number of
// entries of that run below the other head is counted with lane-wide
// compares and copied in one step.
type Vector struct{}

var (
	_ Merger = Vector{}
	_ Scaler = Vector{}
)

// Name implements Merger.
func (Vector) Name() string { return "vector" }

// Merge implements Merger.
func (Vector) Merge(aIdx []uint32, aVal []float32, bIdx []uint32, bVal []float32, cIdx []uint32, cVal []float32) int {
	la, lb := len(aIdx), len(bIdx)
	pa, pb, pc := 0, 0, 0

	for pa < la && pb < lb {
		ka, kb := aIdx[pa], bIdx[pb]
		switch {
		case ka < kb:
			n := simd.CountLess(aIdx[pa:], kb)
			copy(cIdx[pc:pc+n], aIdx[pa:pa+n])
			copy(cVal[pc:pc+n], aVal[pa:pa+n])
			pa += n
			pc += n
		case kb < ka:
			n := simd.CountLess(bIdx[pb:], ka)
			copy(cIdx[pc:pc+n], bIdx[pb:pb+n])
			copy(cVal[pc:pc+n], bVal[pb:pb+n])
			pb += n
			pc += n
		default:
			v := aVal[pa] + bVal[pb]
			cIdx[pc] = ka
			cVal[pc] = v
			pa++
			pb++
			pc++
		}
	}

	if n := la - pa; n > 0 {
		copy(cIdx[pc:pc+n], aIdx[pa:])
		copy(cVal[pc:pc+n], aVal[pa:])
		pc += n
	}
	if n := lb - pb; n > 0 {
		copy(cIdx[pc:pc+n], bIdx[pb:])
		copy(cVal[pc:pc+n], bVal[pb:])
		pc += n
	}
	return pc
}

// Scale implements Scaler.
func (Vector) Scale(dstIdx []uint32, dstVal []float32, srcIdx []uint32, srcVal []float32, alpha float32) int {
	n := copy(dstIdx[:len(srcIdx)], srcIdx)
	simd.ScaleTo(dstVal, srcVal, alpha)
	return n
}
