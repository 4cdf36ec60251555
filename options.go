package formdb

import (
	"log/slog"

	"github.com/hupe1980/formdb/distance"
)

// DefaultParallelThreshold is the candidate count from which distances are
// computed by several goroutines.
const DefaultParallelThreshold = 4096

type options struct {
	weights           distance.Weights
	parallelThreshold int
	metricsCollector  MetricsCollector
	logger            *Logger
}

// Option configures New.
type Option func(*options)

// WithWeights sets the edit costs used for ranking.
// New fails with distance.ErrInvalidWeights if a cost is not positive.
func WithWeights(w distance.Weights) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithParallelThreshold sets the candidate count from which scoring is
// spread over GOMAXPROCS goroutines. n <= 0 disables parallel scoring.
// Results do not depend on this setting.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}

// WithMetricsCollector configures metrics collection for operations.
// Pass nil to disable metrics.
//
// Example with BasicMetricsCollector:
//
//	metrics := &formdb.BasicMetricsCollector{}
//	db, _ := formdb.New(ctx, backend, formdb.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, Avg latency: %dns\n", stats.LookupCount, stats.LookupAvgNanos)
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
//
// Example with JSON logging:
//
//	logger := formdb.NewJSONLogger(slog.LevelInfo)
//	db, _ := formdb.New(ctx, backend, formdb.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		weights:           distance.DefaultWeights,
		parallelThreshold: DefaultParallelThreshold,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
