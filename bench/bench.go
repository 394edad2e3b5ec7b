// Package bench is a benchmark harness for policy.Engine implementations.
// It consumes only the policy.Engine interface and is meant to run
// against a concurrency-safe engine such as cache.Cache: a bare,
// un-wrapped policy engine is not safe for the concurrent access these
// functions generate.
package bench

import (
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/kelkeby/evictcache/policy"
)

// Report carries every metric the harness produces for one run.
type Report struct {
	TotalOps    int64
	Gets        int64
	Puts        int64
	Hits        int64
	Misses      int64
	HitRate     float64       // hits / gets, in [0, 1]; 0 if Gets == 0
	Throughput  float64       // ops per second
	MeanLatency float64       // mean per-op latency, nanoseconds
	StdDevLat   float64       // standard deviation of per-op latency, nanoseconds
	WallTime    time.Duration // elapsed wall-clock time
}

// RunRandom runs total_ops operations split evenly across threads
// goroutines. Each operation is a get with probability getRatio and a
// put otherwise; keys are drawn uniformly from [0, keyRange).
func RunRandom(e policy.Engine[int, int], keyRange, totalOps int, getRatio float64, threads int) Report {
	if threads < 1 {
		threads = 1
	}
	perThread := totalOps / threads
	remainder := totalOps % threads

	var gets, puts, hits, misses int64
	latencies := make([][]float64, threads)

	start := time.Now()
	var g errgroup.Group
	for t := 0; t < threads; t++ {
		t := t
		ops := perThread
		if t == threads-1 {
			ops += remainder
		}
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(t)*104729))
			lat := make([]float64, 0, ops)
			for i := 0; i < ops; i++ {
				key := r.Intn(keyRange)
				opStart := time.Now()
				if r.Float64() < getRatio {
					atomic.AddInt64(&gets, 1)
					if _, ok := e.Get(key); ok {
						atomic.AddInt64(&hits, 1)
					} else {
						atomic.AddInt64(&misses, 1)
					}
				} else {
					atomic.AddInt64(&puts, 1)
					e.Put(key, key)
				}
				lat = append(lat, float64(time.Since(opStart).Nanoseconds()))
			}
			latencies[t] = lat
			return nil
		})
	}
	_ = g.Wait()
	wall := time.Since(start)

	return buildReport(gets, puts, hits, misses, latencies, wall)
}

// RunMixed runs a three-phase workload per thread: phase A scans keys
// [0, scanRange) with get; phase B performs hotspotAccesses operations
// on keys uniform in [0, hotspotRange) with a putRatio share being put;
// phase C repeats phase A.
func RunMixed(e policy.Engine[int, int], scanRange, hotspotRange, hotspotAccesses int, putRatio float64, threads int) Report {
	if threads < 1 {
		threads = 1
	}

	var gets, puts, hits, misses int64
	latencies := make([][]float64, threads)

	start := time.Now()
	var g errgroup.Group
	for t := 0; t < threads; t++ {
		t := t
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(t)*104729))
			opsPerThread := 2*scanRange + hotspotAccesses
			lat := make([]float64, 0, opsPerThread)

			doGet := func(key int) {
				atomic.AddInt64(&gets, 1)
				opStart := time.Now()
				if _, ok := e.Get(key); ok {
					atomic.AddInt64(&hits, 1)
				} else {
					atomic.AddInt64(&misses, 1)
				}
				lat = append(lat, float64(time.Since(opStart).Nanoseconds()))
			}

			// Phase A: scan.
			for i := 0; i < scanRange; i++ {
				doGet(i)
			}

			// Phase B: hotspot.
			for i := 0; i < hotspotAccesses; i++ {
				key := r.Intn(hotspotRange)
				if r.Float64() < putRatio {
					atomic.AddInt64(&puts, 1)
					opStart := time.Now()
					e.Put(key, key)
					lat = append(lat, float64(time.Since(opStart).Nanoseconds()))
				} else {
					doGet(key)
				}
			}

			// Phase C: scan again.
			for i := 0; i < scanRange; i++ {
				doGet(i)
			}

			latencies[t] = lat
			return nil
		})
	}
	_ = g.Wait()
	wall := time.Since(start)

	return buildReport(gets, puts, hits, misses, latencies, wall)
}

func buildReport(gets, puts, hits, misses int64, perThreadLatencies [][]float64, wall time.Duration) Report {
	total := 0
	for _, lat := range perThreadLatencies {
		total += len(lat)
	}
	merged := make([]float64, 0, total)
	for _, lat := range perThreadLatencies {
		merged = append(merged, lat...)
	}

	var mean, stddev float64
	if len(merged) > 0 {
		mean, stddev = stat.MeanStdDev(merged, nil)
	}

	hitRate := 0.0
	if gets > 0 {
		hitRate = float64(hits) / float64(gets)
	}
	throughput := 0.0
	if wall > 0 {
		throughput = float64(gets+puts) / wall.Seconds()
	}

	return Report{
		TotalOps:    gets + puts,
		Gets:        gets,
		Puts:        puts,
		Hits:        hits,
		Misses:      misses,
		HitRate:     hitRate,
		Throughput:  throughput,
		MeanLatency: mean,
		StdDevLat:   stddev,
		WallTime:    wall,
	}
}
