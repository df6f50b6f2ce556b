package workload

import (
	"github.com/hupe1980/spgemm"
	"github.com/hupe1980/spgemm/merge"
)

// Kernel is a resolved multiply configuration.
type Kernel struct {
	Name   string
	Engine spgemm.Engine
	Merger merge.Merger // nil means merge.Default()
}

// Options returns the multiply options selecting k.
func (k Kernel) Options() []spgemm.Option {
	return []spgemm.Option{spgemm.WithEngine(k.Engine), spgemm.WithMerger(k.Merger)}
}

// kernels maps benchmark kernel names to engine configurations.
var kernels = map[string]Kernel{
	"SparseMMHeapAccum":          {Engine: spgemm.EngineHeap},
	"Heap":                       {Engine: spgemm.EngineHeap},
	"SparseMMTimSortAlike":       {Engine: spgemm.EngineStack, Merger: merge.Scalar{}},
	"Merge":                      {Engine: spgemm.EngineStack, Merger: merge.Scalar{}},
	"SparseMMTimOptimized":       {Engine: spgemm.EngineStack, Merger: merge.Scalar{}},
	"SparseMMTimSortAlikeSpSp":   {Engine: spgemm.EngineStack, Merger: merge.Vector{}},
	"ProposedSIMD":               {Engine: spgemm.EngineStack, Merger: merge.Vector{}},
	"SparseMMTimOptimizedSpSp":   {Engine: spgemm.EngineStack, Merger: merge.Vector{}},
	"SparseMMVecAccum_quickSort": {Engine: spgemm.EngineDense},
	"SparseMMVecAccum_noSort":    {Engine: spgemm.EngineDense},
	"SparseMMVecAccum_sortMat":   {Engine: spgemm.EngineDense},
	"Dense":                      {Engine: spgemm.EngineDense},
}

// ResolveKernel maps a kernel name to an engine. Benchmark kernel names are
// matched exactly; anything else goes through spgemm.ParseEngine.
func ResolveKernel(name string) (Kernel, error) {
	if k, ok := kernels[name]; ok {
		k.Name = name
		return k, nil
	}
	e, err := spgemm.ParseEngine(name)
	if err != nil {
		return Kernel{}, err
	}
	return Kernel{Name: name, Engine: e}, nil
}
