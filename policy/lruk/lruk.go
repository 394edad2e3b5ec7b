// Package lruk implements the LRU-K admission policy: a key must be
// touched K times, tracked in a history cache, before it is promoted
// into the resident main cache. This filters one-off scans from
// polluting the resident set the way plain LRU can't.
package lruk

import (
	"github.com/kelkeby/evictcache/policy"
	"github.com/kelkeby/evictcache/policy/lru"
)

// Engine composes a history LRU of (key -> touch count) and a main
// resident LRU of (key -> value). Not safe for concurrent use.
type Engine[K comparable, V any] struct {
	k int

	history       *lru.Engine[K, int]
	resident      *lru.Engine[K, V]
	historyValues map[K]V // values seen for keys currently history-only
}

// New constructs an LRU-K engine with admission threshold k, a history
// cache of historyCapacity, and a resident cache of mainCapacity. It
// returns policy.ErrInvalidCapacity if k < 1 or either capacity is not
// positive.
func New[K comparable, V any](k, historyCapacity, mainCapacity int) (*Engine[K, V], error) {
	if k < 1 {
		return nil, policy.ErrInvalidCapacity
	}
	history, err := lru.New[K, int](historyCapacity)
	if err != nil {
		return nil, err
	}
	resident, err := lru.New[K, V](mainCapacity)
	if err != nil {
		return nil, err
	}
	return &Engine[K, V]{
		k:             k,
		history:       history,
		resident:      resident,
		historyValues: make(map[K]V),
	}, nil
}

// NewFactory returns a policy.Factory that builds LRU-K engines sharing
// admission threshold k and historyCapacity; the capacity the factory
// is called with becomes each instance's mainCapacity, the
// "total_capacity" the sharded wrapper's constructor splits across
// shards.
func NewFactory[K comparable, V any](k, historyCapacity int) policy.Factory[K, V] {
	return func(mainCapacity int) (policy.Engine[K, V], error) {
		return New[K, V](k, historyCapacity, mainCapacity)
	}
}

// Put admits or updates key. A resident key is overwritten and
// promoted. A history-only or brand-new key has its touch count
// incremented; once the count reaches k, the key is promoted into the
// resident cache (evicting a resident victim if full) using value, and
// dropped from history.
func (e *Engine[K, V]) Put(key K, value V) {
	if _, ok := e.resident.Get(key); ok {
		e.resident.Put(key, value)
		return
	}

	count, _ := e.history.Get(key)
	count++
	if count >= e.k {
		e.history.Remove(key)
		delete(e.historyValues, key)
		e.resident.Put(key, value)
		return
	}
	e.history.Put(key, count)
	e.historyValues[key] = value
}

// Get looks up key. A resident hit promotes in the resident cache. A
// history hit increments the touch count; once it reaches k AND a
// value has already been recorded by a prior Put, the key promotes
// using that value and the call is a hit, this is what lets a
// Get-heavy workload eventually materialize a value on promotion
// without a fresh fetch, so long as at least one Put ever supplied
// one. A history hit that reaches k with no recorded value saturates
// its count at k and waits for a value-bearing touch (a subsequent
// Put) instead of fabricating one. A key seen for the first time is
// recorded in history at count 1 with no value. All of these report a
// miss except the value-bearing promotion.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	if v, ok := e.resident.Get(key); ok {
		return v, true
	}

	var zero V
	count, existed := e.history.Get(key)
	if !existed {
		e.history.Put(key, 1)
		return zero, false
	}

	count++
	if count >= e.k {
		if v, hadValue := e.historyValues[key]; hadValue {
			e.history.Remove(key)
			delete(e.historyValues, key)
			e.resident.Put(key, v)
			return v, true
		}
		e.history.Put(key, e.k)
		return zero, false
	}
	e.history.Put(key, count)
	return zero, false
}

// GetOrDefault returns def when key is absent (including "seen but not
// yet promoted"); otherwise it behaves exactly like Get.
func (e *Engine[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := e.Get(key); ok {
		return v
	}
	return def
}

// Remove idempotently erases key from both substructures.
func (e *Engine[K, V]) Remove(key K) {
	e.resident.Remove(key)
	e.history.Remove(key)
	delete(e.historyValues, key)
}

// RemoveAll drops every entry in both substructures, keeping k and both
// capacities.
func (e *Engine[K, V]) RemoveAll() {
	e.resident.RemoveAll()
	e.history.RemoveAll()
	e.historyValues = make(map[K]V)
}

// Len reports the number of resident (promoted) entries. History-only
// keys are not counted.
func (e *Engine[K, V]) Len() int { return e.resident.Len() }

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
