package spgemm

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/spgemm/internal/engine"
	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/resource"
)

// Engine selects the row accumulation algorithm.
type Engine uint8

const (
	// EngineStack merges scaled B rows pairwise on an adaptive run stack.
	EngineStack Engine = iota
	// EngineHeap merges all selected B rows at once through a cursor heap.
	EngineHeap
	// EngineDense accumulates into a dense row.
	EngineDense
)

// String returns the engine name.
func (e Engine) String() string {
	switch e {
	case EngineStack:
		return "stack"
	case EngineHeap:
		return "heap"
	case EngineDense:
		return "dense"
	default:
		return fmt.Sprintf("Engine(%d)", uint8(e))
	}
}

// ParseEngine resolves an engine name. Kernel names used by benchmark
// workload files are accepted as aliases.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stack", "merge", "sparsemmtimoptimized", "sparsemmtimsortalike", "timsort":
		return EngineStack, nil
	case "heap", "sparsemmheapaccum":
		return EngineHeap, nil
	case "dense", "sparsemmvecaccum", "sparsemmvecaccum_quicksort":
		return EngineDense, nil
	default:
		return 0, &ErrUnknownEngine{Name: s}
	}
}

// newRowEngine builds one engine with its own scratch. The returned release
// function frees scratch accounted against rc.
func newRowEngine(ctx context.Context, e Engine, m merge.Merger, bounds Bounds, cols int, rc *resource.Controller) (engine.RowEngine, func(), error) {
	switch e {
	case EngineHeap:
		return engine.NewHeap(bounds.MaxDegree), func() {}, nil
	case EngineDense:
		n := int64(cols) * 4
		if err := rc.AcquireMemory(ctx, n); err != nil {
			return nil, nil, fmt.Errorf("dense accumulator: %w", err)
		}
		return engine.NewDense(cols), func() { rc.ReleaseMemory(n) }, nil
	case EngineStack:
		s, err := engine.NewStack(ctx, bounds.MaxDegree, engine.ArenaCapacity(bounds.MaxRow, bounds.MaxRowWork), m, rc)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, &ErrUnknownEngine{Name: e.String()}
	}
}
