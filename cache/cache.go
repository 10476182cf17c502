// Package cache shares multiplication plans between factors of equal shape.
//
// A plan depends only on the source and target shapes, so every network
// built from one definition can reuse the plans of the others. PlanCache
// deduplicates concurrent builds of the same plan.
package cache

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/factorgo/factor"
	icache "github.com/hupe1980/factorgo/internal/cache"
	"github.com/hupe1980/factorgo/resource"
)

// Key identifies a plan by its source and target shape keys.
type Key struct {
	Source string
	Target string
}

// KeyOf returns the key of the plan from src to dst.
func KeyOf(src, dst factor.Shape) Key {
	return Key{Source: src.Key(), Target: dst.Key()}
}

func (k Key) String() string { return k.Source + "|" + k.Target }

// Stats holds cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Builds int64
	Plans  int
	Bytes  int64
}

// PlanCache is a concurrency-safe, byte-bounded cache of plans.
type PlanCache struct {
	lru    *icache.ShardedLRU
	group  singleflight.Group
	builds atomic.Int64
}

// New creates a plan cache holding at most capacityBytes of plans. If rc is
// non-nil, cached bytes are also reserved against its memory budget.
func New(capacityBytes int64, rc *resource.Controller) *PlanCache {
	return &PlanCache{lru: icache.NewShardedLRU(capacityBytes, rc)}
}

// Get returns the cached plan from src to dst, if any.
func (c *PlanCache) Get(src, dst factor.Shape) (*factor.Plan, bool) {
	return c.lru.Get(KeyOf(src, dst).String())
}

// GetOrBuild returns the plan from src to dst, building and caching it on a
// miss. Concurrent callers for the same key share one build. hit reports
// whether the plan came from the cache.
func (c *PlanCache) GetOrBuild(src, dst factor.Shape) (p *factor.Plan, hit bool, err error) {
	key := KeyOf(src, dst).String()
	if p, ok := c.lru.Get(key); ok {
		return p, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		p, err := factor.NewPlan(src, dst)
		if err != nil {
			return nil, err
		}
		c.builds.Add(1)
		c.lru.Set(key, p)
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*factor.Plan), false, nil
}

// Purge drops every cached plan.
func (c *PlanCache) Purge() {
	c.lru.Purge()
}

// Stats returns a snapshot of the cache statistics.
func (c *PlanCache) Stats() Stats {
	hits, misses := c.lru.Stats()
	return Stats{
		Hits:   hits,
		Misses: misses,
		Builds: c.builds.Load(),
		Plans:  c.lru.Len(),
		Bytes:  c.lru.Size(),
	}
}
