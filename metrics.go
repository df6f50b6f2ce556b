package spgemm

import (
	"sync/atomic"
	"time"
)

// EngineStats are the row engine work counters of one multiply, summed over
// workers.
type EngineStats struct {
	Rows          int64
	Emitted       int64
	HeapFixes     int64
	Pushes        int64
	Merges        int64
	ForceMerges   int64
	MergedEntries int64
	MaxDepth      int64
	Touched       int64
}

// MultiplyStats describes one multiply.
type MultiplyStats struct {
	EngineName string
	Merger     string
	Rows       int
	Cols       int
	NNZ        int
	BoundTotal int // summed row bounds, the sequential allocation size
	Workers    int
	Engine     EngineStats
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordMultiply is called after each multiply. err is nil if
	// successful, in which case stats is complete.
	RecordMultiply(stats MultiplyStats, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMultiply(MultiplyStats, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MultiplyCount      atomic.Int64
	MultiplyErrors     atomic.Int64
	MultiplyTotalNanos atomic.Int64
	OutputNNZ          atomic.Int64
	Merges             atomic.Int64
	HeapFixes          atomic.Int64
}

// RecordMultiply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMultiply(stats MultiplyStats, duration time.Duration, err error) {
	b.MultiplyCount.Add(1)
	b.MultiplyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MultiplyErrors.Add(1)
		return
	}
	b.OutputNNZ.Add(int64(stats.NNZ))
	b.Merges.Add(stats.Engine.Merges + stats.Engine.ForceMerges)
	b.HeapFixes.Add(stats.Engine.HeapFixes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	count := b.MultiplyCount.Load()
	var avg int64
	if count > 0 {
		avg = b.MultiplyTotalNanos.Load() / count
	}
	return BasicMetricsStats{
		MultiplyCount:    count,
		MultiplyErrors:   b.MultiplyErrors.Load(),
		MultiplyAvgNanos: avg,
		OutputNNZ:        b.OutputNNZ.Load(),
		Merges:           b.Merges.Load(),
		HeapFixes:        b.HeapFixes.Load(),
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	MultiplyCount    int64
	MultiplyErrors   int64
	MultiplyAvgNanos int64
	OutputNNZ        int64
	Merges           int64
	HeapFixes        int64
}
