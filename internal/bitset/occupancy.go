package bitset

import "slices"

// Occupancy is a non-thread-safe bitset over [0, width) with a touched list.
type Occupancy struct {
	bits    []uint64
	touched []uint32
	width   int
}

// NewOccupancy creates an Occupancy for width bits.
func NewOccupancy(width int) *Occupancy {
	return &Occupancy{
		bits:    make([]uint64, (width+63)/64),
		touched: make([]uint32, 0, 128),
		width:   width,
	}
}

// Width returns the number of addressable bits.
func (o *Occupancy) Width() int { return o.width }

// TestAndSet sets bit i and returns true if it was already set.
// i must be below the width.
func (o *Occupancy) TestAndSet(i uint32) bool {
	word := i >> 6
	mask := uint64(1) << (i & 63)
	if o.bits[word]&mask != 0 {
		return true
	}
	o.bits[word] |= mask
	o.touched = append(o.touched, i)
	return false
}

// Test returns true if bit i is set.
func (o *Occupancy) Test(i uint32) bool {
	word := int(i >> 6)
	if word >= len(o.bits) {
		return false
	}
	return o.bits[word]&(uint64(1)<<(i&63)) != 0
}

// Count returns the number of set bits.
func (o *Occupancy) Count() int { return len(o.touched) }

// Sorted sorts the touched list in place and returns it. The slice is
// valid until the next TestAndSet or Reset.
func (o *Occupancy) Sorted() []uint32 {
	slices.Sort(o.touched)
	return o.touched
}

// Reset clears all set bits.
func (o *Occupancy) Reset() {
	for _, i := range o.touched {
		o.bits[i>>6] &^= uint64(1) << (i & 63)
	}
	o.touched = o.touched[:0]
}
