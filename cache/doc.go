// Package cache provides a hash-sharded concurrency wrapper around any
// policy.Engine. It partitions total capacity across N independent
// shards, each guarded by its own mutex, so unrelated keys can be read
// and written concurrently without contending on a single lock.
//
// Cache itself implements policy.Engine, so it can be passed anywhere a
// bare engine is accepted, including as the inner engine of another
// Cache, or to the bench package's harness functions.
package cache
