package util

import "runtime"

// minShardCount and maxShardCount bound the value ReasonableShardCount
// picks: never fewer than one shard and never more than 256, whatever
// the parallelism. They do not depend on any cache's capacity; cache.New
// caps a default shard count at Capacity.
const (
	minShardCount = 1
	maxShardCount = 256
)

// ReasonableShardCount picks a default shard count from the runtime's
// available parallelism: twice GOMAXPROCS, rounded up to a power of two
// (so ShardIndex can mask instead of divide), clamped to
// [minShardCount, maxShardCount].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n < minShardCount {
		n = minShardCount
	}
	if n > maxShardCount {
		n = maxShardCount
	}
	return n
}

// ShardIndex maps a 64-bit hash to one of shards indices. When shards is
// a power of two it masks instead of dividing; otherwise it falls back
// to modulo, which stays correct for any positive shard count.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
