package merge

import (
	"fmt"
	"strings"

	"github.com/hupe1980/spgemm/internal/simd"
)

// Merger merges two sorted runs into c and returns the output length, which
// is at most len(aIdx)+len(bIdx). cIdx and cVal must have room for that
// many entries and must not overlap any input slice.
type Merger interface {
	Merge(aIdx []uint32, aVal []float32, bIdx []uint32, bVal []float32, cIdx []uint32, cVal []float32) int
	Name() string
}

// Scaler is implemented by mergers that also provide a scaled run copy.
type Scaler interface {
	// Scale copies src into dst with every value multiplied by alpha and
	// returns len(srcIdx).
	Scale(dstIdx []uint32, dstVal []float32, srcIdx []uint32, srcVal []float32, alpha float32) int
}

// ScaleRun copies a run scaled by alpha using m's Scaler when available.
func ScaleRun(m Merger, dstIdx []uint32, dstVal []float32, srcIdx []uint32, srcVal []float32, alpha float32) int {
	if s, ok := m.(Scaler); ok {
		return s.Scale(dstIdx, dstVal, srcIdx, srcVal, alpha)
	}
	n := copy(dstIdx[:len(srcIdx)], srcIdx)
	for i, v := range srcVal {
		dstVal[i] = v * alpha
	}
	return n
}

// Default returns Vector when the CPU has a usable vector unit and Scalar
// otherwise.
func Default() Merger {
	if simd.Vectorized() {
		return Vector{}
	}
	return Scalar{}
}

// ByName resolves "scalar", "vector" or "auto".
func ByName(name string) (Merger, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Default(), nil
	case "scalar":
		return Scalar{}, nil
	case "vector", "simd":
		return Vector{}, nil
	default:
		return nil, fmt.Errorf("merge: unknown merger %q", name)
	}
}
