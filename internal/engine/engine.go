package engine

import "github.com/hupe1980/spgemm/sparse"

// RowEngine accumulates single rows of a sparse product.
type RowEngine interface {
	// Name identifies the engine.
	Name() string

	// Row writes the product of the A row (aCols, aVals) with b into
	// outIdx/outVal and returns the number of entries written.
	Row(aCols []uint32, aVals []float32, b *sparse.CSR, outIdx []uint32, outVal []float32) int

	// Stats returns the counters accumulated since construction.
	Stats() Stats
}

// Stats are per-engine work counters.
type Stats struct {
	Rows    int64 // rows processed
	Emitted int64 // entries written to output rows

	HeapFixes int64 // heap: replace-top operations

	Pushes        int64 // stack: runs pushed
	Merges        int64 // stack: balance merges
	ForceMerges   int64 // stack: merges after the last push
	MergedEntries int64 // stack: entries produced by all merges
	MaxDepth      int64 // stack: deepest run stack seen

	Touched int64 // dense: accumulator updates
}

// Add accumulates o into s. MaxDepth keeps the maximum.
func (s *Stats) Add(o Stats) {
	s.Rows += o.Rows
	s.Emitted += o.Emitted
	s.HeapFixes += o.HeapFixes
	s.Pushes += o.Pushes
	s.Merges += o.Merges
	s.ForceMerges += o.ForceMerges
	s.MergedEntries += o.MergedEntries
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
	s.Touched += o.Touched
}
