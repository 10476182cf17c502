package factorgo

import (
	"log/slog"

	"github.com/hupe1980/factorgo/resource"
)

// DefaultPlanCacheBytes is the default plan cache capacity.
const DefaultPlanCacheBytes = 64 << 20

type options struct {
	poolSize         int
	planCacheBytes   int64
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures an Engine.
type Option func(*options)

// WithPoolSize sets how many network instances may serve queries at once.
// Each instance holds its own selections, so this bounds query parallelism.
// Defaults to 1.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithPlanCacheBytes sets the plan cache capacity. Zero or negative disables
// plan caching; eliminations then take the direct path.
func WithPlanCacheBytes(n int64) Option {
	return func(o *options) {
		o.planCacheBytes = n
	}
}

// WithResourceController bounds plan memory and query admission with rc.
// The controller may be shared between engines.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:     256 << 20,
//	    MaxConcurrentQueries: 8,
//	})
//	e, _ := factorgo.New(def, factorgo.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &factorgo.BasicMetricsCollector{}
//	e, _ := factorgo.New(def, factorgo.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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
		poolSize:         1,
		planCacheBytes:   DefaultPlanCacheBytes,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.poolSize <= 0 {
		o.poolSize = 1
	}
	return o
}
