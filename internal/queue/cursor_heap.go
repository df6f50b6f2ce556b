package queue

// Exhausted is the key of a cursor with nothing left to read. It lies above
// every uint32 column, so exhausted cursors sink to the bottom of the heap
// and a legal column can never be mistaken for it.
const Exhausted uint64 = 1 << 32

// IsExhausted reports whether key is the exhausted tag.
func IsExhausted(key uint64) bool { return key&Exhausted != 0 }

// Key returns the heap key for a live cursor positioned at column col.
func Key(col uint32) uint64 { return uint64(col) }

// CursorHeap is a binary min-heap of source ids ordered by their current
// head key. Storage is allocated once for the largest source count and
// reused via Reset.
type CursorHeap struct {
	keys []uint64 // keys[src]
	heap []int32  // heap order of source ids
	n    int
}

// NewCursorHeap allocates a heap for up to capacity sources.
func NewCursorHeap(capacity int) *CursorHeap {
	return &CursorHeap{
		keys: make([]uint64, capacity),
		heap: make([]int32, capacity),
	}
}

// Cap returns the maximum number of sources.
func (h *CursorHeap) Cap() int { return len(h.heap) }

// Len returns the number of sources in the heap.
func (h *CursorHeap) Len() int { return h.n }

// Reset prepares the heap for n sources with ids 0..n-1. Keys must be set
// with SetKey and the heap built with Init before use.
func (h *CursorHeap) Reset(n int) {
	h.n = n
	for i := range n {
		h.heap[i] = int32(i)
	}
}

// SetKey sets the key of source src. Only valid between Reset and Init.
func (h *CursorHeap) SetKey(src int, key uint64) {
	h.keys[src] = key
}

// Init establishes the heap property.
func (h *CursorHeap) Init() {
	for i := h.n/2 - 1; i >= 0; i-- {
		h.siftDown(i)
	}
}

// Top returns the source with the smallest key and that key.
func (h *CursorHeap) Top() (int, uint64) {
	src := h.heap[0]
	return int(src), h.keys[src]
}

// ReplaceTop gives the top source a new key and restores the heap in one
// sift-down pass. The key must not be smaller than the old one.
func (h *CursorHeap) ReplaceTop(key uint64) {
	h.keys[h.heap[0]] = key
	h.siftDown(0)
}

// siftDown moves the entry at i toward the leaves. Of two children the
// smaller key wins, the left child on ties, and the walk stops as soon as
// the entry is not larger than that child.
func (h *CursorHeap) siftDown(i int) {
	n := h.n
	src := h.heap[i]
	key := h.keys[src]
	for {
		l := 2*i + 1
		if l >= n {
			break
		}
		best := l
		if r := l + 1; r < n && h.keys[h.heap[r]] < h.keys[h.heap[l]] {
			best = r
		}
		if key <= h.keys[h.heap[best]] {
			break
		}
		h.heap[i] = h.heap[best]
		i = best
	}
	h.heap[i] = src
}
