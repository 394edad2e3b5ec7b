package cache_test

import (
	"strings"
	"testing"

	"github.com/kelkeby/evictcache/cache"
)

// Fuzz basic Put/Get/Remove semantics under arbitrary string inputs.
// Guards against panics and ensures a Put is always visible to the very
// next Get, no matter what the key or value look like.
func FuzzCache_PutGetRemove(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12 // 4096, keep memory bounded during fuzzing
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c, err := cache.New[string, string](cache.Options[string, string]{Capacity: 16})
		if err != nil {
			t.Fatal(err)
		}

		c.Put(k, v)
		got, ok := c.Get(k)
		if !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		c.Remove(k)
		if _, ok := c.Get(k); ok {
			t.Fatal("key must be absent after Remove")
		}

		c.Put(k, v)
		if _, ok := c.Get(k); !ok {
			t.Fatal("Put after Remove must be visible again")
		}
	})
}
