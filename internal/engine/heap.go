package engine

import (
	"github.com/hupe1980/spgemm/internal/queue"
	"github.com/hupe1980/spgemm/sparse"
)

// Heap merges the selected B rows directly with a cursor heap.
type Heap struct {
	heap   *queue.CursorHeap
	pos    []int // next unread position in b per source
	end    []int
	weight []float32
	stats  Stats
}

var _ RowEngine = (*Heap)(nil)

// NewHeap returns a heap engine for A rows of at most maxDegree entries.
func NewHeap(maxDegree int) *Heap {
	return &Heap{
		heap:   queue.NewCursorHeap(maxDegree),
		pos:    make([]int, maxDegree),
		end:    make([]int, maxDegree),
		weight: make([]float32, maxDegree),
	}
}

// Name implements RowEngine.
func (h *Heap) Name() string { return "heap" }

// Stats implements RowEngine.
func (h *Heap) Stats() Stats { return h.stats }

// Row implements RowEngine.
func (h *Heap) Row(aCols []uint32, aVals []float32, b *sparse.CSR, outIdx []uint32, outVal []float32) int {
	h.stats.Rows++
	k := len(aCols)
	if k == 0 {
		return 0
	}

	h.heap.Reset(k)
	for s, col := range aCols {
		lo, hi := b.RowOffsets[col], b.RowOffsets[col+1]
		h.pos[s], h.end[s], h.weight[s] = lo, hi, aVals[s]
		if lo < hi {
			h.heap.SetKey(s, queue.Key(b.ColIndices[lo]))
		} else {
			h.heap.SetKey(s, queue.Exhausted)
		}
	}
	h.heap.Init()

	n := 0
	for {
		src, key := h.heap.Top()
		if queue.IsExhausted(key) {
			break
		}
		col := uint32(key)
		p := h.pos[src]
		v := b.Values[p] * h.weight[src]

		// Columns come out non-decreasing, so a repeat can only match the
		// previous slot.
		if n > 0 && outIdx[n-1] == col {
			outVal[n-1] += v
		} else {
			outIdx[n] = col
			outVal[n] = v
			n++
		}

		p++
		h.pos[src] = p
		if p < h.end[src] {
			h.heap.ReplaceTop(queue.Key(b.ColIndices[p]))
		} else {
			h.heap.ReplaceTop(queue.Exhausted)
		}
		h.stats.HeapFixes++
	}

	h.stats.Emitted += int64(n)
	return n
}
