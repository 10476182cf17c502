package metric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/factorgo"
	"github.com/hupe1980/factorgo/network"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusCollector(reg, "factorgo")

	p.RecordQuery(time.Millisecond, nil)
	p.RecordQuery(time.Millisecond, errors.New("boom"))
	p.RecordPlan(false, time.Microsecond)
	p.RecordPlan(true, 0)
	p.RecordPlan(true, 0)
	p.RecordBatchQuery(10, 3, time.Millisecond)
	p.RecordBorrow(0, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(p.queries.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.queries.WithLabelValues("error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.plans.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.plans.WithLabelValues("miss")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(p.batchFailed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.borrows.WithLabelValues("success")), 0)

	n, err := testutil.GatherAndCount(reg, "factorgo_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusCollector_Engine(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusCollector(reg, "test")

	def := network.Definition{
		Variables: []network.Variable{
			{ID: 0, States: []string{"a", "b"}},
			{ID: 1, States: []string{"x", "y"}},
		},
		Factors: []network.FactorDef{
			{Dims: []int{0}, Values: []float64{0.5, 0.5}},
			{Dims: []int{0, 1}, Values: []float64{0.9, 0.1, 0.3, 0.7}},
		},
	}
	e, err := factorgo.New(def, factorgo.WithMetricsCollector(p))
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Query(context.Background(), map[int]int{1: 0}, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(p.queries.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.borrows.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.plans.WithLabelValues("miss")), 0)
}
