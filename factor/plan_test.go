package factor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/factorgo/buffer"
)

func TestNewPlan(t *testing.T) {
	src := Shape{IDs: []int{0, 1, 2}, Cards: []int{2, 3, 2}}
	dst := Shape{IDs: []int{2, 0}, Cards: []int{2, 2}}

	p, err := NewPlan(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 12, p.Len())
	assert.True(t, p.Source().Equal(src))
	assert.True(t, p.Target().Equal(dst))
	assert.Greater(t, p.SizeBytes(), int64(12*4))

	// Source index of (x0, x1, x2) is x0*6 + x1*2 + x2; target is x2*2 + x0.
	for x0 := range 2 {
		for x1 := range 3 {
			for x2 := range 2 {
				assert.Equal(t, x2*2+x0, p.TargetOf(x0*6+x1*2+x2))
			}
		}
	}
}

func TestNewPlan_Errors(t *testing.T) {
	src := Shape{IDs: []int{0, 1}, Cards: []int{2, 3}}

	_, err := NewPlan(src, Shape{IDs: []int{4}, Cards: []int{2}})
	assert.ErrorIs(t, err, ErrIncompatible)
	assert.ErrorIs(t, err, ErrUnknownDimension)

	_, err = NewPlan(src, Shape{IDs: []int{1}, Cards: []int{2}})
	var ie *IncompatibleError
	assert.ErrorAs(t, err, &ie)

	_, err = NewPlan(Shape{IDs: []int{0}, Cards: []int{}}, Shape{})
	assert.ErrorIs(t, err, ErrShape)
}

func TestSumPrepared(t *testing.T) {
	f := newTestDense(t, []int{0, 1}, []int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	g := newTestDense(t, []int{1}, []int{3}, nil)

	p, err := f.PrepareMultiplication(g)
	require.NoError(t, err)

	dst := make([]float64, 3)
	require.NoError(t, f.SumPrepared(dst, p))
	assert.Equal(t, []float64{5, 7, 9}, dst)

	// Accumulates into dst.
	require.NoError(t, f.SumPrepared(dst, p))
	assert.Equal(t, []float64{10, 14, 18}, dst)

	// Replays against new values without rebuilding.
	require.NoError(t, f.CopyValues([]float64{1, 1, 1, 1, 1, 1}))
	dst = make([]float64, 3)
	require.NoError(t, f.SumPrepared(dst, p))
	assert.Equal(t, []float64{2, 2, 2}, dst)

	require.NoError(t, f.Select(0, 0))
	require.NoError(t, f.CopyValues([]float64{3, 0, 7}))
	dst = make([]float64, 3)
	require.NoError(t, f.SumPrepared(dst, p))
	assert.Equal(t, []float64{3, 0, 7}, dst)
}

func TestSumPrepared_Mismatch(t *testing.T) {
	f := newTestDense(t, []int{0, 1}, []int{2, 3}, nil)
	other := newTestDense(t, []int{0, 1}, []int{2, 2}, nil)
	g := newTestDense(t, []int{0}, []int{2}, nil)

	p, err := other.PrepareMultiplication(g)
	require.NoError(t, err)
	assert.ErrorIs(t, f.SumPrepared(make([]float64, 2), p), ErrPlanMismatch)
	assert.ErrorIs(t, f.SumPrepared(make([]float64, 2), nil), ErrPlanMismatch)

	p, err = f.PrepareMultiplication(g)
	require.NoError(t, err)
	assert.ErrorIs(t, f.SumPrepared(make([]float64, 5), p), ErrShape)
}

func TestPlanApply(t *testing.T) {
	p, err := NewPlan(Shape{IDs: []int{0, 1}, Cards: []int{2, 2}}, Shape{IDs: []int{0}, Cards: []int{2}})
	require.NoError(t, err)

	dst := make([]float64, 2)
	p.Apply(dst, buffer.Wrap([]float64{1, 2, 3, 4}))
	assert.Equal(t, []float64{3, 7}, dst)

	f32 := buffer.NewFloat32(4)
	f32.CopyFrom([]float64{1, 1, 1, 1})
	p.Apply(dst, f32)
	assert.Equal(t, []float64{5, 9}, dst)
}

func TestPlan_ScalarTarget(t *testing.T) {
	f := newTestDense(t, []int{0, 1}, []int{2, 2}, []float64{1, 2, 3, 4})
	p, err := NewPlan(f.Shape(), Shape{})
	require.NoError(t, err)

	dst := make([]float64, 1)
	require.NoError(t, f.SumPrepared(dst, p))
	assert.Equal(t, []float64{10}, dst)
}
