package engine

import (
	"context"

	"github.com/hupe1980/spgemm/internal/arena"
	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/sparse"
)

// ArenaCapacity returns the per-arena capacity for the stack engine: four
// times the largest row bound, raised to the largest uncapped row work.
// Every run of a row lies below the total length pushed for that row, so
// the uncapped work always fits.
func ArenaCapacity(maxRowBound, maxRowWork int) int {
	return max(4*maxRowBound, maxRowWork)
}

// Stack pushes one scaled run per A entry and merges runs under a balance
// policy that keeps run lengths roughly geometric.
type Stack struct {
	runs    []arena.Run // runs[len-1] is the top
	scratch *arena.PingPong
	merger  merge.Merger
	stats   Stats
}

var _ RowEngine = (*Stack)(nil)

// NewStack returns a stack engine with arenas of the given capacity (see
// ArenaCapacity). acq may be nil.
func NewStack(ctx context.Context, maxDegree, capacity int, m merge.Merger, acq arena.MemoryAcquirer) (*Stack, error) {
	scratch, err := arena.NewPingPong(ctx, capacity, acq)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = merge.Default()
	}
	return &Stack{
		runs:    make([]arena.Run, 0, maxDegree+1),
		scratch: scratch,
		merger:  m,
	}, nil
}

// Name implements RowEngine.
func (s *Stack) Name() string { return "stack/" + s.merger.Name() }

// Stats implements RowEngine.
func (s *Stack) Stats() Stats { return s.stats }

// Close releases the arenas.
func (s *Stack) Close() { s.scratch.Free() }

// Row implements RowEngine.
func (s *Stack) Row(aCols []uint32, aVals []float32, b *sparse.CSR, outIdx []uint32, outVal []float32) int {
	s.stats.Rows++
	s.runs = s.runs[:0]

	for i, col := range aCols {
		bIdx, bVal := b.Row(int(col))
		if len(bIdx) == 0 {
			continue
		}
		s.push(bIdx, bVal, aVals[i])
		s.balance()
	}

	for len(s.runs) > 1 {
		s.mergeAt(0)
		s.stats.ForceMerges++
	}
	if len(s.runs) == 0 {
		return 0
	}

	idx, val := s.scratch.Run(s.runs[0])
	n := copy(outIdx[:len(idx)], idx)
	copy(outVal[:len(val)], val)
	s.stats.Emitted += int64(n)
	return n
}

// push copies a scaled B row into arena 0 just past the top run.
func (s *Stack) push(bIdx []uint32, bVal []float32, alpha float32) {
	off := 0
	if d := len(s.runs); d > 0 {
		off = s.runs[d-1].End()
	}
	dIdx, dVal := s.scratch.Window(0, off, len(bIdx))
	merge.ScaleRun(s.merger, dIdx, dVal, bIdx, bVal, alpha)

	s.runs = append(s.runs, arena.Run{Off: off, Len: len(bIdx), Arena: 0})
	s.stats.Pushes++
	s.stats.MaxDepth = max(s.stats.MaxDepth, int64(len(s.runs)))
}

// balance merges while the top runs violate the length invariant. With
// r1 the top run length:
//
//	r1 >= r2, r1+r2 >= r3 or r2+r3 >= r4  → merge
//	r1 > r3                               → merge depths 1,2 instead of 0,1
func (s *Stack) balance() {
	for d := len(s.runs); d >= 2; d = len(s.runs) {
		r1 := s.runs[d-1].Len
		r2 := s.runs[d-2].Len
		need := r1 >= r2
		deeper := false
		if d >= 3 {
			r3 := s.runs[d-3].Len
			need = need || r1+r2 >= r3
			deeper = r1 > r3
			if d >= 4 {
				need = need || r2+r3 >= s.runs[d-4].Len
			}
		}
		if !need {
			return
		}
		if deeper {
			s.mergeAt(1)
		} else {
			s.mergeAt(0)
		}
		s.stats.Merges++
	}
}

// mergeAt merges the runs at depth and depth+1 (0 is the top). Both inputs
// are first brought into one arena by copying the shorter run, so the
// output window in the opposite arena overlaps neither input. The result
// starts at the deeper run's offset and takes the deeper run's stack slot.
//
// Every window used lies in [deep.Off, shallow.End()), which holds no other
// live run in either arena.
func (s *Stack) mergeAt(depth int) {
	si := len(s.runs) - 1 - depth
	di := si - 1
	deep, shallow := s.runs[di], s.runs[si]

	if deep.Arena != shallow.Arena {
		if shallow.Len <= deep.Len {
			shallow = s.relocate(shallow, deep.Arena, deep.End())
		} else {
			deep = s.relocate(deep, shallow.Arena, deep.Off)
		}
	}

	out := deep.Arena.Other()
	aIdx, aVal := s.scratch.Run(deep)
	bIdx, bVal := s.scratch.Run(shallow)
	cIdx, cVal := s.scratch.Window(out, deep.Off, deep.Len+shallow.Len)
	n := s.merger.Merge(aIdx, aVal, bIdx, bVal, cIdx, cVal)

	s.runs[di] = arena.Run{Off: deep.Off, Len: n, Arena: out}
	copy(s.runs[si:], s.runs[si+1:])
	s.runs = s.runs[:len(s.runs)-1]
	s.stats.MergedEntries += int64(n)
}

// relocate copies r into arena id at off and returns the moved run.
func (s *Stack) relocate(r arena.Run, id arena.ID, off int) arena.Run {
	srcIdx, srcVal := s.scratch.Run(r)
	dstIdx, dstVal := s.scratch.Window(id, off, r.Len)
	copy(dstIdx, srcIdx)
	copy(dstVal, srcVal)
	return arena.Run{Off: off, Len: r.Len, Arena: id}
}
