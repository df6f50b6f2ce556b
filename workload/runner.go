package workload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/spgemm"
	"github.com/hupe1980/spgemm/blobstore"
	"github.com/hupe1980/spgemm/persistence"
	"github.com/hupe1980/spgemm/sparse"
)

// Phase names in reports.
const (
	PhaseLoad     = "loadCSR"
	PhaseMultiply = "SpGemm"
	PhaseWrite    = "writeCSR"
)

// Report is a description with updated outputs and phase timings.
type Report struct {
	Description
	Timings map[string]Stat `json:"timings" yaml:"timings"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}

type runnerOptions struct {
	logger      *spgemm.Logger
	compression persistence.Compression
	multiply    []spgemm.Option
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

// WithLogger sets the logger for run progress. Pass nil to disable logging.
func WithLogger(l *spgemm.Logger) RunnerOption {
	return func(o *runnerOptions) {
		if l == nil {
			l = spgemm.NoopLogger()
		}
		o.logger = l
	}
}

// WithCompression stores outputs in the container layout.
func WithCompression(c persistence.Compression) RunnerOption {
	return func(o *runnerOptions) {
		o.compression = c
	}
}

// WithMultiplyOptions adds options to every multiply, after the kernel's own.
func WithMultiplyOptions(opts ...spgemm.Option) RunnerOption {
	return func(o *runnerOptions) {
		o.multiply = append(o.multiply, opts...)
	}
}

// Runner executes workloads against a blob store.
type Runner struct {
	store blobstore.Store
	opts  runnerOptions
}

// NewRunner creates a runner reading and writing matrices in store.
func NewRunner(store blobstore.Store, optFns ...RunnerOption) *Runner {
	o := runnerOptions{logger: spgemm.NoopLogger()}
	for _, fn := range optFns {
		fn(&o)
	}
	return &Runner{store: store, opts: o}
}

// LoadMatrix fetches and decodes a matrix blob.
func (r *Runner) LoadMatrix(ctx context.Context, name string) (*sparse.CSR, error) {
	data, err := r.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	m, err := persistence.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return m, nil
}

// StoreMatrix encodes and writes a matrix blob.
func (r *Runner) StoreMatrix(ctx context.Context, name string, m *sparse.CSR) error {
	data, err := persistence.Encode(m, r.opts.compression)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, name, data)
}

// Run loads the inputs, multiplies once unrecorded and repeat times
// recorded, and writes the last product.
func (r *Runner) Run(ctx context.Context, desc *Description, repeat int) (*Report, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	kernel, err := ResolveKernel(desc.KernelName)
	if err != nil {
		return nil, err
	}
	descA, descB, descC := desc.Inputs[InputA], desc.Inputs[InputB], desc.Outputs[OutputC]
	logger := r.opts.logger.With("kernel", kernel.Name)

	timer := NewTimer()
	var a, b, c *sparse.CSR

	err = timer.Measure(PhaseLoad, 0, 1, func() error {
		var err error
		if a, err = r.LoadMatrix(ctx, descA.FileName); err != nil {
			return err
		}
		if err = descA.Matches(a); err != nil {
			return err
		}
		if b, err = r.LoadMatrix(ctx, descB.FileName); err != nil {
			return err
		}
		return descB.Matches(b)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "inputs loaded", "a", descA.FileName, "b", descB.FileName)

	opts := append(kernel.Options(), r.opts.multiply...)
	err = timer.Measure(PhaseMultiply, 1, repeat, func() error {
		var err error
		c, err = spgemm.Multiply(ctx, a, b, opts...)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = timer.Measure(PhaseWrite, 0, 1, func() error {
		return r.StoreMatrix(ctx, descC.FileName, c)
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Description: Description{
			KernelName: desc.KernelName,
			Inputs:     desc.Inputs,
			Outputs:    make(map[string]MatrixDesc, len(desc.Outputs)),
		},
		Timings: timer.Stats(),
	}
	for k, v := range desc.Outputs {
		report.Outputs[k] = v
	}
	report.Outputs[OutputC] = Describe(descC.FileName, c)

	mul := report.Timings[PhaseMultiply]
	logger.InfoContext(ctx, "workload finished",
		slog.Int("nnz", c.NNZ()),
		slog.Int("repeat", mul.N),
		slog.Float64("mean_ns", mul.Mean),
		slog.Float64("sd_ns", mul.SD),
	)
	return report, nil
}
