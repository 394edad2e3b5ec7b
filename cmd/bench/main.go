// Command bench runs a synthetic workload against a sharded cache and
// prints a report; it can optionally expose Prometheus metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kelkeby/evictcache/bench"
	"github.com/kelkeby/evictcache/cache"
	pmet "github.com/kelkeby/evictcache/metrics/prom"
	"github.com/kelkeby/evictcache/policy"
	"github.com/kelkeby/evictcache/policy/arc"
	"github.com/kelkeby/evictcache/policy/lfu"
	"github.com/kelkeby/evictcache/policy/lfuaging"
	"github.com/kelkeby/evictcache/policy/lru"
	"github.com/kelkeby/evictcache/policy/lruk"
)

func main() {
	var (
		capacity  = flag.Int("cap", 100_000, "total cache capacity (entries)")
		shards    = flag.Int("shards", 0, "number of shards (0=auto)")
		pol       = flag.String("policy", "lru", "eviction policy: lru | lfu | lfuaging | lruk | arc")
		workload  = flag.String("workload", "random", "workload: random | mixed")
		threads   = flag.Int("threads", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		keyRange  = flag.Int("keys", 1_000_000, "keyspace size (random workload)")
		totalOps  = flag.Int("ops", 2_000_000, "total operations (random workload)")
		getRatio  = flag.Float64("get_ratio", 0.8, "fraction of ops that are get (random workload)")
		scanRange = flag.Int("scan_range", 10_000, "phase A/C scan size (mixed workload)")
		hotRange  = flag.Int("hotspot_range", 1_000, "phase B hotspot keyspace (mixed workload)")
		hotOps    = flag.Int("hotspot_ops", 200_000, "phase B operation count (mixed workload)")
		putRatio  = flag.Float64("put_ratio", 0.2, "phase B put share (mixed workload)")

		lruK            = flag.Int("lruk_k", 2, "LRU-K admission threshold")
		lruKHistoryCap  = flag.Int("lruk_history_cap", 10_000, "LRU-K history capacity per shard")
		maxAvgFreqLimit = flag.Float64("lfuaging_max_avg_freq", lfuaging.DefaultMaxAvgFreqLimit, "LFU-Aging aging threshold")

		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	)
	flag.Parse()

	var metrics cache.Metrics = cache.NoopMetrics{}
	if *metricsAddr != "" {
		promAdapter := pmet.New(nil, "evictcache", "bench", nil)
		metrics = promAdapter
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	factory, err := policyFactory(*pol, *lruK, *lruKHistoryCap, *maxAvgFreqLimit)
	if err != nil {
		log.Fatalf("bench: %v", err)
	}

	c, err := cache.New[int, int](cache.Options[int, int]{
		Capacity: *capacity,
		Shards:   *shards,
		Factory:  factory,
		Metrics:  metrics,
	})
	if err != nil {
		log.Fatalf("bench: cache.New: %v", err)
	}

	var report bench.Report
	switch *workload {
	case "random":
		report = bench.RunRandom(c, *keyRange, *totalOps, *getRatio, *threads)
	case "mixed":
		report = bench.RunMixed(c, *scanRange, *hotRange, *hotOps, *putRatio, *threads)
	default:
		log.Fatalf("bench: unknown workload %q (use random or mixed)", *workload)
	}

	fmt.Printf("policy=%s workload=%s cap=%d shards=%d threads=%d\n",
		*pol, *workload, *capacity, c.Shards(), *threads)
	fmt.Printf("ops=%d (%.0f ops/s)  gets=%d  puts=%d\n",
		report.TotalOps, report.Throughput, report.Gets, report.Puts)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n",
		report.Hits, report.Misses, report.HitRate*100)
	fmt.Printf("latency: mean=%.0fns stddev=%.0fns  wall=%s\n",
		report.MeanLatency, report.StdDevLat, report.WallTime)
	fmt.Printf("Len()=%d\n", c.Len())
}

func policyFactory(name string, k, historyCap int, maxAvgFreqLimit float64) (policy.Factory[int, int], error) {
	switch name {
	case "lru":
		return lru.NewFactory[int, int](), nil
	case "lfu":
		return lfu.NewFactory[int, int](), nil
	case "lfuaging":
		return lfuaging.NewFactory[int, int](maxAvgFreqLimit), nil
	case "lruk":
		return lruk.NewFactory[int, int](k, historyCap), nil
	case "arc":
		return arc.NewFactory[int, int](), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (use lru, lfu, lfuaging, lruk or arc)", name)
	}
}
