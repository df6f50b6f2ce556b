package workload

import (
	"math"
	"time"
)

// Stat summarizes the samples of one phase. Records are nanoseconds.
type Stat struct {
	Operation string    `json:"operation" yaml:"operation"`
	Mean      float64   `json:"mean" yaml:"mean"`
	SD        float64   `json:"sd" yaml:"sd"`
	N         int       `json:"nSamples" yaml:"nSamples"`
	Records   []float64 `json:"records" yaml:"records"`
}

// Analyze computes the mean and population standard deviation of records.
func Analyze(operation string, records []float64) Stat {
	s := Stat{Operation: operation, N: len(records), Records: records}
	if s.N == 0 {
		return s
	}
	var sum, sq float64
	for _, r := range records {
		sum += r
		sq += r * r
	}
	n := float64(s.N)
	s.Mean = sum / n
	s.SD = math.Sqrt(max(sq/n-s.Mean*s.Mean, 0))
	return s
}

// Timer collects phase samples in the order phases are first measured.
type Timer struct {
	order   []string
	records map[string][]float64
}

// NewTimer returns an empty timer.
func NewTimer() *Timer {
	return &Timer{records: make(map[string][]float64)}
}

// Measure runs fn warmup times unrecorded, then repeat times recorded. The
// first error stops the measurement.
func (t *Timer) Measure(name string, warmup, repeat int, fn func() error) error {
	for range warmup {
		if err := fn(); err != nil {
			return err
		}
	}
	if _, ok := t.records[name]; !ok {
		t.order = append(t.order, name)
	}
	for range repeat {
		start := time.Now()
		if err := fn(); err != nil {
			return err
		}
		t.records[name] = append(t.records[name], float64(time.Since(start).Nanoseconds()))
	}
	return nil
}

// Stats returns one Stat per phase, keyed by phase name.
func (t *Timer) Stats() map[string]Stat {
	out := make(map[string]Stat, len(t.order))
	for _, name := range t.order {
		out[name] = Analyze(name, t.records[name])
	}
	return out
}
