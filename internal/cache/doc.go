// Package cache provides size-accounted LRU caching for multiplication plans.
//
// The ShardedLRU spreads entries across 64 shards to keep lock contention low
// when many inference workers resolve plans at once. Each shard accounts the
// bytes of the plans it holds and, when given a resource.Controller, reserves
// them against the global memory budget.
package cache
