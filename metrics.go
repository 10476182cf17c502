package factorgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metric.PrometheusCollector for a Prometheus implementation.
type MetricsCollector interface {
	// RecordQuery is called after each query.
	// duration is the total time taken, err is nil if successful.
	RecordQuery(duration time.Duration, err error)

	// RecordBatchQuery is called after each batch of queries.
	RecordBatchQuery(count, failed int, duration time.Duration)

	// RecordPlan is called after each plan lookup; hit reports whether the
	// plan came from the cache.
	RecordPlan(hit bool, duration time.Duration)

	// RecordBorrow is called after each network borrow with the time spent
	// waiting for a free instance.
	RecordBorrow(wait time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(time.Duration, error)         {}
func (NoopMetricsCollector) RecordBatchQuery(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordPlan(bool, time.Duration)           {}
func (NoopMetricsCollector) RecordBorrow(time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	QueryCount       atomic.Int64
	QueryErrors      atomic.Int64
	QueryTotalNanos  atomic.Int64
	BatchCount       atomic.Int64
	BatchItems       atomic.Int64
	BatchFailed      atomic.Int64
	PlanHits         atomic.Int64
	PlanMisses       atomic.Int64
	BorrowCount      atomic.Int64
	BorrowErrors     atomic.Int64
	BorrowTotalNanos atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordBatchQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchQuery(count, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// RecordPlan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPlan(hit bool, _ time.Duration) {
	if hit {
		b.PlanHits.Add(1)
	} else {
		b.PlanMisses.Add(1)
	}
}

// RecordBorrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBorrow(wait time.Duration, err error) {
	b.BorrowCount.Add(1)
	b.BorrowTotalNanos.Add(wait.Nanoseconds())
	if err != nil {
		b.BorrowErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:     b.QueryCount.Load(),
		QueryErrors:    b.QueryErrors.Load(),
		QueryAvgNanos:  avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		BatchCount:     b.BatchCount.Load(),
		BatchItems:     b.BatchItems.Load(),
		BatchFailed:    b.BatchFailed.Load(),
		PlanHits:       b.PlanHits.Load(),
		PlanMisses:     b.PlanMisses.Load(),
		BorrowCount:    b.BorrowCount.Load(),
		BorrowErrors:   b.BorrowErrors.Load(),
		BorrowAvgNanos: avg(b.BorrowTotalNanos.Load(), b.BorrowCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount     int64
	QueryErrors    int64
	QueryAvgNanos  int64
	BatchCount     int64
	BatchItems     int64
	BatchFailed    int64
	PlanHits       int64
	PlanMisses     int64
	BorrowCount    int64
	BorrowErrors   int64
	BorrowAvgNanos int64
}
