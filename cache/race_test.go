package cache_test

import (
	"context"
	"math/rand"
	"runtime"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kelkeby/evictcache/cache"
	"github.com/kelkeby/evictcache/policy/arc"
)

// A mixed workload of concurrent Put/Get/Remove/RemoveAll on random
// keys. Should pass under `-race` without detector reports; each shard
// mutex should protect only its own engine, never a shared one.
func TestRace_Basic(t *testing.T) {
	c, err := cache.New[int, int](cache.Options[int, int]{
		Capacity: 8_192,
		Shards:   32,
		Factory:  arc.NewFactory[int, int](),
	})
	if err != nil {
		t.Fatal(err)
	}

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(w)*9973))
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				k := r.Intn(keyspace)
				switch r.Intn(100) {
				case 0, 1, 2: // ~3%, RemoveAll (expensive; keep it rare)
					c.RemoveAll()
				case 3, 4, 5, 6, 7: // ~5%, Remove
					c.Remove(k)
				case 8, 9, 10, 11, 12, 13, 14, 15, 16, 17: // ~10%, Put
					c.Put(k, k)
				default: // ~82%, Get
					c.Get(k)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// Len() itself locks and unlocks every shard in turn; running it
// concurrently with mutators must not deadlock or race.
func TestRace_ConcurrentLen(t *testing.T) {
	c, err := cache.New[int, int](cache.Options[int, int]{Capacity: 1024, Shards: 8})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			c.Put(i%2048, i)
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			_ = c.Len()
		}
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
