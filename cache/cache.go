package cache

import (
	"sync"

	"github.com/kelkeby/evictcache/internal/util"
	"github.com/kelkeby/evictcache/policy"
	"github.com/kelkeby/evictcache/policy/lru"
)

type shardSlot[K comparable, V any] struct {
	mu  sync.Mutex
	eng policy.Engine[K, V]

	// hits/misses are updated atomically, without the shard mutex, on
	// every Get; the pad keeps them off the cache line mu and eng share
	// so a hot reader on one shard never bounces another goroutine's
	// mutex acquisition on the same shard out of cache.
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

// Cache partitions a total capacity across N hash-selected shards, each
// independently locked, wrapping any policy.Engine implementation. It
// implements policy.Engine itself.
type Cache[K comparable, V any] struct {
	shards  []*shardSlot[K, V]
	metrics Metrics
}

// New constructs a sharded Cache from opts. It returns
// policy.ErrInvalidCapacity if Capacity is not positive, and propagates
// any error the shard Factory returns.
func New[K comparable, V any](opts Options[K, V]) (*Cache[K, V], error) {
	if opts.Capacity <= 0 {
		return nil, policy.ErrInvalidCapacity
	}
	shards := opts.Shards
	if shards <= 0 {
		shards = util.ReasonableShardCount()
		if shards > opts.Capacity {
			shards = opts.Capacity
		}
	}
	factory := opts.Factory
	if factory == nil {
		factory = lru.NewFactory[K, V]()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	base := opts.Capacity / shards
	remainder := opts.Capacity % shards

	// A shard only ends up with zero capacity when an explicit Shards
	// exceeds Capacity; the floor split then leaves every shard but the
	// last at zero, which the per-shard check below rejects.
	slots := make([]*shardSlot[K, V], shards)
	for i := 0; i < shards; i++ {
		shardCap := base
		if i == shards-1 {
			shardCap += remainder
		}
		if shardCap <= 0 {
			return nil, policy.ErrInvalidCapacity
		}
		eng, err := factory(shardCap)
		if err != nil {
			return nil, err
		}
		slots[i] = &shardSlot[K, V]{eng: eng}
	}

	return &Cache[K, V]{shards: slots, metrics: metrics}, nil
}

func (c *Cache[K, V]) shardFor(key K) *shardSlot[K, V] {
	h := util.HashKey(key)
	idx := util.ShardIndex(h, len(c.shards))
	return c.shards[idx]
}

// Put routes key to its shard and delegates.
func (c *Cache[K, V]) Put(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.eng.Put(key, value)
	n := s.eng.Len()
	s.mu.Unlock()
	c.metrics.Size(n)
}

// Get routes key to its shard, delegates, and records a hit or miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	v, ok := s.eng.Get(key)
	s.mu.Unlock()
	if ok {
		s.hits.Add(1)
		c.metrics.Hit()
	} else {
		s.misses.Add(1)
		c.metrics.Miss()
	}
	return v, ok
}

// GetOrDefault returns def when key is absent; otherwise it behaves
// exactly like Get.
func (c *Cache[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	return def
}

// Remove routes key to its shard and delegates.
func (c *Cache[K, V]) Remove(key K) {
	s := c.shardFor(key)
	s.mu.Lock()
	s.eng.Remove(key)
	n := s.eng.Len()
	s.mu.Unlock()
	c.metrics.Size(n)
}

// RemoveAll clears every shard, locking them strictly in index order so
// no two RemoveAll calls (or a RemoveAll racing per-key operations
// across distinct shards) can deadlock against each other.
func (c *Cache[K, V]) RemoveAll() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.eng.RemoveAll()
		s.mu.Unlock()
	}
	c.metrics.Size(0)
}

// Len sums the resident count across all shards. Each shard is locked
// only for the duration of its own Len(), so the total is a snapshot,
// not a linearizable point-in-time count under concurrent writers.
func (c *Cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += s.eng.Len()
		s.mu.Unlock()
	}
	return total
}

// Shards reports the number of independent shards this Cache was built
// with, mainly for tests and the benchmark CLI's reporting.
func (c *Cache[K, V]) Shards() int { return len(c.shards) }

// ShardStats reports the lock-free hit/miss counters for shard i. Unlike
// the pluggable Metrics hooks, these are always on and cost a single
// atomic add per Get; use them to spot key skew across shards (a shard
// with a wildly different hit rate than its neighbors suggests the hash
// function or shard count needs revisiting for this keyspace).
func (c *Cache[K, V]) ShardStats(i int) (hits, misses int64) {
	s := c.shards[i]
	return s.hits.Load(), s.misses.Load()
}

var _ policy.Engine[int, int] = (*Cache[int, int])(nil)
