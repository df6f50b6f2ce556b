package spgemm

import (
	"log/slog"

	"github.com/hupe1980/spgemm/merge"
	"github.com/hupe1980/spgemm/resource"
)

type options struct {
	engine           Engine
	merger           merge.Merger
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures Multiply.
type Option func(*options)

// WithEngine selects the row engine. The default is EngineStack.
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithMerger sets the two-way merge used by EngineStack.
//
// If nil is passed, merge.Default() is used.
func WithMerger(m merge.Merger) Option {
	return func(o *options) {
		if m == nil {
			m = merge.Default()
		}
		o.merger = m
	}
}

// WithWorkers sets the number of row workers. Values below 2 run the
// sequential path, which allocates to the row bounds and skips the exact
// counting pass.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &spgemm.BasicMetricsCollector{}
//	c, _ := spgemm.Multiply(ctx, a, b, spgemm.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Multiplies: %d, Avg latency: %dns\n", stats.MultiplyCount, stats.MultiplyAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds scratch memory and worker concurrency.
// Controllers may be shared between concurrent multiplies.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		engine:           EngineStack,
		merger:           merge.Default(),
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
