package factorgo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	boom := errors.New("boom")

	m.RecordQuery(10*time.Nanosecond, nil)
	m.RecordQuery(30*time.Nanosecond, boom)
	m.RecordBatchQuery(5, 2, time.Millisecond)
	m.RecordPlan(true, 0)
	m.RecordPlan(false, 0)
	m.RecordPlan(false, 0)
	m.RecordBorrow(4*time.Nanosecond, nil)

	s := m.GetStats()
	assert.Equal(t, int64(2), s.QueryCount)
	assert.Equal(t, int64(1), s.QueryErrors)
	assert.Equal(t, int64(20), s.QueryAvgNanos)
	assert.Equal(t, int64(1), s.BatchCount)
	assert.Equal(t, int64(5), s.BatchItems)
	assert.Equal(t, int64(2), s.BatchFailed)
	assert.Equal(t, int64(1), s.PlanHits)
	assert.Equal(t, int64(2), s.PlanMisses)
	assert.Equal(t, int64(1), s.BorrowCount)
	assert.Equal(t, int64(4), s.BorrowAvgNanos)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	s := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, s.QueryAvgNanos)
	assert.Zero(t, s.BorrowAvgNanos)
}

func TestApplyOptions_Defaults(t *testing.T) {
	o := applyOptions([]Option{nil, WithLogger(nil), WithMetricsCollector(nil), WithPoolSize(-3)})
	assert.Equal(t, 1, o.poolSize)
	assert.Equal(t, int64(DefaultPlanCacheBytes), o.planCacheBytes)
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}
