package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/factorgo/factor"
	"github.com/hupe1980/factorgo/resource"
)

// LRU is a byte-bounded LRU of plans keyed by string.
type LRU struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	rc        *resource.Controller

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key  string
	plan *factor.Plan
	size int64
}

// NewLRU creates a new LRU with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRU(capacity int64, rc *resource.Controller) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// Get returns a cached plan.
func (c *LRU) Get(key string) (*factor.Plan, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).plan, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a plan. It reports whether the plan was admitted; plans larger
// than the capacity or denied by the controller are not cached.
func (c *LRU) Set(key string, p *factor.Plan) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		// Plans for one key are interchangeable; keep the resident one.
		c.evictList.MoveToFront(ent)
		return true
	}

	itemSize := p.SizeBytes()
	if itemSize > c.capacity {
		return false
	}

	// Evict locally first so released bytes are visible to the controller.
	for c.size+itemSize > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	if c.rc != nil && !c.rc.TryAcquireMemory(itemSize) {
		return false
	}

	element := c.evictList.PushFront(&entry{key: key, plan: p, size: itemSize})
	c.items[key] = element
	c.size += itemSize
	return true
}

// Invalidate removes entries matching the predicate.
func (c *LRU) Invalidate(predicate func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

// Purge removes every entry and returns its bytes to the controller.
func (c *LRU) Purge() {
	c.Invalidate(func(string) bool { return true })
}

// Stats returns hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached plans.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the current size of the cache in bytes.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRU) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.key)
	c.size -= kv.size
	if c.rc != nil {
		c.rc.ReleaseMemory(kv.size)
	}
}
