package merge

// Scalar is the two-pointer merge.
type Scalar struct{}

var (
	_ Merger = Scalar{}
	_ Scaler = Scalar{}
)

// Name implements Merger.
func (Scalar) Name() string { return "scalar" }

// Merge implements Merger.
func (Scalar) Merge(aIdx []uint32, aVal []float32, bIdx []uint32, bVal []float32, cIdx []uint32, cVal []float32) int {
	la, lb := len(aIdx), len(bIdx)
	pa, pb, pc := 0, 0, 0

	for pa < la && pb < lb {
		ka, kb := aIdx[pa], bIdx[pb]
		switch {
		case ka < kb:
			cIdx[pc] = ka
			cVal[pc] = aVal[pa]
			pa++
		case kb < ka:
			cIdx[pc] = kb
			cVal[pc] = bVal[pb]
			pb++
		default:
			v := aVal[pa] + bVal[pb]
			cIdx[pc] = ka
			cVal[pc] = v
			pa++
			pb++
		}
		pc++
	}

	for ; pa < la; pa++ {
		cIdx[pc] = aIdx[pa]
		cVal[pc] = aVal[pa]
		pc++
	}
	for ; pb < lb; pb++ {
		cIdx[pc] = bIdx[pb]
		cVal[pc] = bVal[pb]
		pc++
	}
	return pc
}

// Scale implements Scaler.
func (Scalar) Scale(dstIdx []uint32, dstVal []float32, srcIdx []uint32, srcVal []float32, alpha float32) int {
	n := copy(dstIdx[:len(srcIdx)], srcIdx)
	for i, v := range srcVal {
		dstVal[i] = v * alpha
	}
	return n
}
