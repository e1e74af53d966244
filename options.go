package gemgo

import (
	"log/slog"
)

// DefaultRounds is the round budget used by Run when WithRounds is not given.
const DefaultRounds = 200

// DefaultMinimumViable is the minimum batch size hint passed to the selector.
const DefaultMinimumViable = 2

// RoundHook is called after every applied round. Returning an error stops Run
// with that error.
type RoundHook func(res RoundResult) error

type options struct {
	rounds           int
	minViable        int
	metricsCollector MetricsCollector
	logger           *Logger
	roundHook        RoundHook
}

// Option configures Orderer constructor behavior.
type Option func(*options)

// WithRounds sets the maximum number of rounds Run performs.
//
// Non-positive values are rejected by New.
func WithRounds(n int) Option {
	return func(o *options) {
		o.rounds = n
	}
}

// WithMinimumViable sets the minimum batch size hint.
//
// The hint is accepted for compatibility with callers that tune it, but the
// selector currently ignores it.
func WithMinimumViable(n int) Option {
	return func(o *options) {
		o.minViable = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gemgo.BasicMetricsCollector{}
//	o, _ := gemgo.New(gems, gemgo.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Rounds: %d, Avg latency: %dns\n", stats.RoundCount, stats.RoundAvgNanos)
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
//	logger := gemgo.NewJSONLogger(slog.LevelInfo)
//	o, _ := gemgo.New(gems, gemgo.WithLogger(logger))
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

// WithRoundHook registers a callback invoked after each applied round.
func WithRoundHook(hook RoundHook) Option {
	return func(o *options) {
		o.roundHook = hook
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		rounds:           DefaultRounds,
		minViable:        DefaultMinimumViable,
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
