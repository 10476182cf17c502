// Package metric exports engine metrics to Prometheus.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/factorgo"
)

var latencyBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1}

// PrometheusCollector implements factorgo.MetricsCollector with Prometheus
// counters and histograms.
type PrometheusCollector struct {
	queries        *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	batchSize      prometheus.Histogram
	batchFailed    prometheus.Counter
	plans          *prometheus.CounterVec
	planBuild      prometheus.Histogram
	borrows        *prometheus.CounterVec
	borrowDuration prometheus.Histogram
}

var _ factorgo.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector registers the collector's metrics with reg. A nil
// reg uses the default registerer. namespace prefixes every metric name.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &PrometheusCollector{
		// Labels: "success", "error"
		queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total posterior queries by result",
		}, []string{"result"}),
		queryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Posterior query duration",
			Buckets:   latencyBuckets,
		}),
		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Queries per batch",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		batchFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failed_total",
			Help:      "Failed queries within batches",
		}),
		// Labels: "hit", "miss"
		plans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_lookups_total",
			Help:      "Plan cache lookups by outcome",
		}, []string{"outcome"}),
		planBuild: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_build_duration_seconds",
			Help:      "Time to build a plan on a cache miss",
			Buckets:   latencyBuckets,
		}),
		borrows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "borrows_total",
			Help:      "Network borrows by result",
		}, []string{"result"}),
		borrowDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "borrow_wait_seconds",
			Help:      "Time spent waiting for a free network",
			Buckets:   latencyBuckets,
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordQuery implements factorgo.MetricsCollector.
func (p *PrometheusCollector) RecordQuery(d time.Duration, err error) {
	p.queries.WithLabelValues(result(err)).Inc()
	p.queryDuration.Observe(d.Seconds())
}

// RecordBatchQuery implements factorgo.MetricsCollector.
func (p *PrometheusCollector) RecordBatchQuery(count, failed int, _ time.Duration) {
	p.batchSize.Observe(float64(count))
	p.batchFailed.Add(float64(failed))
}

// RecordPlan implements factorgo.MetricsCollector.
func (p *PrometheusCollector) RecordPlan(hit bool, d time.Duration) {
	if hit {
		p.plans.WithLabelValues("hit").Inc()
		return
	}
	p.plans.WithLabelValues("miss").Inc()
	p.planBuild.Observe(d.Seconds())
}

// RecordBorrow implements factorgo.MetricsCollector.
func (p *PrometheusCollector) RecordBorrow(wait time.Duration, err error) {
	p.borrows.WithLabelValues(result(err)).Inc()
	p.borrowDuration.Observe(wait.Seconds())
}
