package cache

import (
	"hash/maphash"
	"sync"

	"github.com/hupe1980/factorgo/factor"
	"github.com/hupe1980/factorgo/resource"
)

const numShards = 64

// ShardedLRU is a sharded LRU for high-concurrency workloads.
// The capacity is divided evenly across all shards.
type ShardedLRU struct {
	shards [numShards]*LRU
	seed   maphash.Seed
}

// NewShardedLRU creates a new sharded LRU.
func NewShardedLRU(capacity int64, rc *resource.Controller) *ShardedLRU {
	shardCapacity := capacity / numShards
	if shardCapacity < 1 {
		shardCapacity = 1
	}

	s := &ShardedLRU{
		seed: maphash.MakeSeed(),
	}
	for i := range numShards {
		s.shards[i] = NewLRU(shardCapacity, rc)
	}
	return s
}

func (s *ShardedLRU) shard(key string) *LRU {
	return s.shards[maphash.String(s.seed, key)%numShards]
}

// Get returns a cached plan.
func (s *ShardedLRU) Get(key string) (*factor.Plan, bool) {
	return s.shard(key).Get(key)
}

// Set caches a plan.
func (s *ShardedLRU) Set(key string, p *factor.Plan) bool {
	return s.shard(key).Set(key, p)
}

// Invalidate removes entries matching the predicate from every shard.
func (s *ShardedLRU) Invalidate(predicate func(key string) bool) {
	var wg sync.WaitGroup
	wg.Add(numShards)
	for i := range numShards {
		go func(shard *LRU) {
			defer wg.Done()
			shard.Invalidate(predicate)
		}(s.shards[i])
	}
	wg.Wait()
}

// Purge empties every shard.
func (s *ShardedLRU) Purge() {
	for i := range numShards {
		s.shards[i].Purge()
	}
}

// Stats returns aggregated hit/miss statistics.
func (s *ShardedLRU) Stats() (hits, misses int64) {
	for i := range numShards {
		h, m := s.shards[i].Stats()
		hits += h
		misses += m
	}
	return hits, misses
}

// Len returns the number of cached plans across all shards.
func (s *ShardedLRU) Len() int {
	n := 0
	for i := range numShards {
		n += s.shards[i].Len()
	}
	return n
}

// Size returns the total size across all shards.
func (s *ShardedLRU) Size() int64 {
	var total int64
	for i := range numShards {
		total += s.shards[i].Size()
	}
	return total
}

type shardStats struct {
	ShardID int
	Size    int64
	Hits    int64
	Misses  int64
}

// ShardStats returns per-shard statistics.
func (s *ShardedLRU) ShardStats() []shardStats {
	stats := make([]shardStats, numShards)
	for i := range numShards {
		h, m := s.shards[i].Stats()
		stats[i] = shardStats{
			ShardID: i,
			Size:    s.shards[i].Size(),
			Hits:    h,
			Misses:  m,
		}
	}
	return stats
}
