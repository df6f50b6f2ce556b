package arena

import (
	"context"
	"fmt"
	"unsafe"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

// ID selects one of the two arenas.
type ID uint8

// Other returns the opposite arena.
func (id ID) Other() ID { return id ^ 1 }

// Run is a sorted, duplicate-free slice of (column, value) pairs living in
// arena Arena at [Off, Off+Len).
type Run struct {
	Off   int
	Len   int
	Arena ID
}

// End returns the first offset past the run.
func (r Run) End() int { return r.Off + r.Len }

const entryBytes = int64(unsafe.Sizeof(uint32(0)) + unsafe.Sizeof(float32(0)))

// Bytes returns the memory footprint of a PingPong of the given capacity.
func Bytes(capacity int) int64 {
	return 2 * int64(capacity) * entryBytes
}

// PingPong holds two equally sized (index, value) arenas.
type PingPong struct {
	idx      [2][]uint32
	val      [2][]float32
	acq      MemoryAcquirer
	reserved int64
}

// NewPingPong allocates two arenas of capacity entries each. acq may be nil.
func NewPingPong(ctx context.Context, capacity int, acq MemoryAcquirer) (*PingPong, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("arena: negative capacity %d", capacity)
	}
	p := &PingPong{acq: acq}
	if acq != nil {
		n := Bytes(capacity)
		if err := acq.AcquireMemory(ctx, n); err != nil {
			return nil, fmt.Errorf("arena: reserve %d bytes: %w", n, err)
		}
		p.reserved = n
	}
	for i := range 2 {
		p.idx[i] = make([]uint32, capacity)
		p.val[i] = make([]float32, capacity)
	}
	return p, nil
}

// Cap returns the number of entries each arena holds.
func (p *PingPong) Cap() int { return len(p.idx[0]) }

// Run returns the storage of r. The slices are capped at the run end.
func (p *PingPong) Run(r Run) ([]uint32, []float32) {
	end := r.End()
	return p.idx[r.Arena][r.Off:end:end], p.val[r.Arena][r.Off:end:end]
}

// Window returns n writable entries of arena id starting at off. A window
// reaching past the arena capacity panics.
func (p *PingPong) Window(id ID, off, n int) ([]uint32, []float32) {
	end := off + n
	return p.idx[id][off:end:end], p.val[id][off:end:end]
}

// Free returns the reserved memory. The arena must not be used afterwards.
func (p *PingPong) Free() {
	if p.acq != nil && p.reserved > 0 {
		p.acq.ReleaseMemory(p.reserved)
		p.reserved = 0
	}
	p.idx = [2][]uint32{}
	p.val = [2][]float32{}
}
