package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/factorgo/factor"
	"github.com/hupe1980/factorgo/resource"
)

func testPlan(t *testing.T, card int) *factor.Plan {
	t.Helper()
	src, err := factor.NewShape([]int{0, 1}, []int{card, 2})
	require.NoError(t, err)
	dst, err := factor.NewShape([]int{1}, []int{2})
	require.NoError(t, err)
	p, err := factor.NewPlan(src, dst)
	require.NoError(t, err)
	return p
}

func TestLRU(t *testing.T) {
	p := testPlan(t, 4)
	sz := p.SizeBytes()

	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10 * sz})
	c := NewLRU(2*sz, rc) // room for two plans

	// 1. Set k1
	assert.True(t, c.Set("k1", p))
	assert.Equal(t, sz, c.Size())
	assert.Equal(t, sz, rc.MemoryUsage())

	// 2. Set k2
	assert.True(t, c.Set("k2", p))
	assert.Equal(t, 2*sz, c.Size())

	// 3. Set k3 evicts k1 (LRU)
	assert.True(t, c.Set("k3", p))
	assert.Equal(t, 2*sz, c.Size())
	assert.Equal(t, 2*sz, rc.MemoryUsage())

	_, ok := c.Get("k1")
	assert.False(t, ok)
	got, ok := c.Get("k2")
	assert.True(t, ok)
	assert.Same(t, p, got)

	// 4. k2 is now most recent, k4 evicts k3
	assert.True(t, c.Set("k4", p))
	_, ok = c.Get("k3")
	assert.False(t, ok)
	_, ok = c.Get("k2")
	assert.True(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Zero(t, c.Size())
	assert.Zero(t, rc.MemoryUsage())
}

func TestLRU_TooLarge(t *testing.T) {
	p := testPlan(t, 8)
	c := NewLRU(p.SizeBytes()-1, nil)
	assert.False(t, c.Set("k", p))
	assert.Zero(t, c.Len())
}

func TestLRU_ControllerDenies(t *testing.T) {
	p := testPlan(t, 4)
	rc := resource.NewController(resource.Config{MemoryLimitBytes: p.SizeBytes()})
	require.True(t, rc.TryAcquireMemory(1))

	c := NewLRU(10*p.SizeBytes(), rc)
	assert.False(t, c.Set("k", p))
	assert.Zero(t, c.Size())
	assert.Equal(t, int64(1), rc.MemoryUsage())
}

func TestLRU_SetExisting(t *testing.T) {
	p := testPlan(t, 4)
	c := NewLRU(10*p.SizeBytes(), nil)
	assert.True(t, c.Set("k", p))
	assert.True(t, c.Set("k", testPlan(t, 4)))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Equal(t, p.SizeBytes(), c.Size())
}

func TestLRU_Invalidate(t *testing.T) {
	p := testPlan(t, 2)
	c := NewLRU(10*p.SizeBytes(), nil)
	c.Set("0:2|a", p)
	c.Set("0:2|b", p)
	c.Set("1:2|a", p)

	c.Invalidate(func(key string) bool { return strings.HasPrefix(key, "0:2") })
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("1:2|a")
	assert.True(t, ok)
}
