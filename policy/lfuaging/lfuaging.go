// Package lfuaging implements LFU with a periodic aging rule: whenever
// the average resident frequency crosses a configured limit, every
// frequency is decayed so newly hot keys can dislodge historically hot
// ones without ever forcing an eviction by itself.
package lfuaging

import (
	"container/list"

	"github.com/kelkeby/evictcache/policy"
)

// DefaultMaxAvgFreqLimit is the threshold used when a caller doesn't
// have a specific one in mind.
const DefaultMaxAvgFreqLimit = 10.0

type entry[K comparable, V any] struct {
	key   K
	value V
	freq  int
}

// Engine is a fixed-capacity LFU cache with aging. Not safe for
// concurrent use.
type Engine[K comparable, V any] struct {
	capacity        int
	maxAvgFreqLimit float64

	minFreq      int
	totalFreqSum int
	buckets      map[int]*list.List // freq -> list of *entry, front = oldest
	index        map[K]*list.Element
}

// New constructs an LFU-Aging engine. It returns
// policy.ErrInvalidCapacity if capacity is not positive.
func New[K comparable, V any](capacity int, maxAvgFreqLimit float64) (*Engine[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrInvalidCapacity
	}
	if maxAvgFreqLimit <= 0 {
		maxAvgFreqLimit = DefaultMaxAvgFreqLimit
	}
	return &Engine[K, V]{
		capacity:        capacity,
		maxAvgFreqLimit: maxAvgFreqLimit,
		buckets:         make(map[int]*list.List),
		index:           make(map[K]*list.Element, capacity),
	}, nil
}

// NewFactory returns a policy.Factory that builds LFU-Aging engines
// sharing the same maxAvgFreqLimit, so the sharded wrapper can build one
// per shard from a single closure.
func NewFactory[K comparable, V any](maxAvgFreqLimit float64) policy.Factory[K, V] {
	return func(capacity int) (policy.Engine[K, V], error) {
		return New[K, V](capacity, maxAvgFreqLimit)
	}
}

// Put inserts or overwrites key, then runs aging if the resulting
// average frequency exceeds the configured limit.
func (e *Engine[K, V]) Put(key K, value V) {
	if el, ok := e.index[key]; ok {
		el.Value.(*entry[K, V]).value = value
		e.touch(el)
		e.maybeAge()
		return
	}
	if len(e.index) >= e.capacity {
		e.evictMin()
	}
	el := e.bucket(1).PushBack(&entry[K, V]{key: key, value: value, freq: 1})
	e.index[key] = el
	e.minFreq = 1
	e.totalFreqSum++
	e.maybeAge()
}

// Get looks up key, bumping its frequency by one on a hit and then
// running aging if needed.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	el, ok := e.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.touch(el)
	e.maybeAge()
	return el.Value.(*entry[K, V]).value, true
}

// GetOrDefault returns def when key is absent; otherwise it behaves
// exactly like Get.
func (e *Engine[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := e.Get(key); ok {
		return v
	}
	return def
}

// Remove idempotently erases key.
func (e *Engine[K, V]) Remove(key K) {
	el, ok := e.index[key]
	if !ok {
		return
	}
	ent := el.Value.(*entry[K, V])
	b := e.buckets[ent.freq]
	b.Remove(el)
	delete(e.index, key)
	e.totalFreqSum -= ent.freq
	if b.Len() == 0 {
		delete(e.buckets, ent.freq)
		if ent.freq == e.minFreq {
			e.rescanMinFreq()
		}
	}
}

// RemoveAll drops every entry, keeping capacity and maxAvgFreqLimit.
func (e *Engine[K, V]) RemoveAll() {
	e.buckets = make(map[int]*list.List)
	e.index = make(map[K]*list.Element, e.capacity)
	e.minFreq = 0
	e.totalFreqSum = 0
}

// Len reports the number of resident entries.
func (e *Engine[K, V]) Len() int { return len(e.index) }

func (e *Engine[K, V]) bucket(freq int) *list.List {
	b, ok := e.buckets[freq]
	if !ok {
		b = list.New()
		e.buckets[freq] = b
	}
	return b
}

func (e *Engine[K, V]) touch(el *list.Element) {
	ent := el.Value.(*entry[K, V])
	oldFreq := ent.freq
	old := e.buckets[oldFreq]
	old.Remove(el)
	emptied := old.Len() == 0
	if emptied {
		delete(e.buckets, oldFreq)
	}

	ent.freq++
	e.totalFreqSum++
	newEl := e.bucket(ent.freq).PushBack(ent)
	e.index[ent.key] = newEl

	if emptied && oldFreq == e.minFreq {
		e.minFreq++
	}
}

func (e *Engine[K, V]) evictMin() {
	b, ok := e.buckets[e.minFreq]
	if !ok || b.Len() == 0 {
		return
	}
	front := b.Front()
	ent := front.Value.(*entry[K, V])
	b.Remove(front)
	delete(e.index, ent.key)
	e.totalFreqSum -= ent.freq
	if b.Len() == 0 {
		delete(e.buckets, e.minFreq)
	}
}

func (e *Engine[K, V]) rescanMinFreq() {
	if len(e.index) == 0 {
		e.minFreq = 0
		return
	}
	min := 0
	for f, b := range e.buckets {
		if b.Len() == 0 {
			continue
		}
		if min == 0 || f < min {
			min = f
		}
	}
	e.minFreq = min
}

// maybeAge decays every resident frequency by floor(maxAvgFreqLimit/2)
// (floored at 1) when the average frequency exceeds the configured
// limit, then rebuilds the bucket structure from scratch. Aging never
// evicts.
func (e *Engine[K, V]) maybeAge() {
	n := len(e.index)
	if n == 0 {
		return
	}
	avg := float64(e.totalFreqSum) / float64(n)
	if avg <= e.maxAvgFreqLimit {
		return
	}

	delta := int(e.maxAvgFreqLimit / 2)
	if delta < 1 {
		delta = 1
	}

	newBuckets := make(map[int]*list.List)
	newIndex := make(map[K]*list.Element, e.capacity)
	newSum := 0
	newMin := 0

	// Preserve relative insertion order within each old bucket, and
	// visit buckets ascending so ties still favor the entry aged from
	// the lowest original frequency first.
	for f := 1; f <= e.highestFreq(); f++ {
		b, ok := e.buckets[f]
		if !ok {
			continue
		}
		for el := b.Front(); el != nil; el = el.Next() {
			ent := el.Value.(*entry[K, V])
			ent.freq -= delta
			if ent.freq < 1 {
				ent.freq = 1
			}
			nb, ok := newBuckets[ent.freq]
			if !ok {
				nb = list.New()
				newBuckets[ent.freq] = nb
			}
			newEl := nb.PushBack(ent)
			newIndex[ent.key] = newEl
			newSum += ent.freq
			if newMin == 0 || ent.freq < newMin {
				newMin = ent.freq
			}
		}
	}

	e.buckets = newBuckets
	e.index = newIndex
	e.totalFreqSum = newSum
	e.minFreq = newMin
}

func (e *Engine[K, V]) highestFreq() int {
	max := 0
	for f := range e.buckets {
		if f > max {
			max = f
		}
	}
	return max
}

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
