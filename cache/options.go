package cache

import "github.com/kelkeby/evictcache/policy"

// Options configures a Cache. Zero values are safe; sane defaults are
// applied in New:
//   - nil Factory  => policy/lru.NewFactory()
//   - Shards <= 0  => internal/util.ReasonableShardCount(), capped at Capacity
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry count across all shards.
	Capacity int

	// Shards is the number of independent, separately-locked engine
	// instances. If 0, an automatic value is chosen based on GOMAXPROCS,
	// never more than Capacity.
	Shards int

	// Factory builds one engine instance per shard, given that shard's
	// share of Capacity. nil => policy/lru.NewFactory().
	Factory policy.Factory[K, V]

	// Metrics receives hit/miss/size observability events. nil =>
	// NoopMetrics.
	Metrics Metrics
}
