package cache_test

import (
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/kelkeby/evictcache/cache"
)

// benchmarkMix exercises a read/write mix against a warm cache using
// int keys, which keeps the benchmark's own allocation cost out of the
// measurement.
func benchmarkMix(b *testing.B, readsPct int) {
	c, err := cache.New[int, int](cache.Options[int, int]{Capacity: 100_000})
	if err != nil {
		b.Fatal(err)
	}

	for i := 0; i < 50_000; i++ {
		c.Put(i, i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1 // hot keyspace, power of two for fast &-mask

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := i & keyMask
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, i)
			}
			i++
		}
	})
}

func BenchmarkCache_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkCache_50r50w(b *testing.B) { benchmarkMix(b, 50) }
