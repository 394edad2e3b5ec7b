// Package lfu implements a Least-Frequently-Used eviction engine:
// per-frequency buckets plus a running minimum-frequency pointer.
package lfu

import (
	"container/list"

	"github.com/kelkeby/evictcache/policy"
)

type entry[K comparable, V any] struct {
	key   K
	value V
	freq  int
}

// Engine is a fixed-capacity LFU cache. Ties within a bucket break by
// insertion order (oldest at the bucket's front, newest at its back).
// Not safe for concurrent use.
type Engine[K comparable, V any] struct {
	capacity int
	minFreq  int
	buckets  map[int]*list.List // freq -> list of *entry, front = oldest
	index    map[K]*list.Element
}

// New constructs an LFU engine. It returns policy.ErrInvalidCapacity if
// capacity is not positive.
func New[K comparable, V any](capacity int) (*Engine[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrInvalidCapacity
	}
	return &Engine[K, V]{
		capacity: capacity,
		buckets:  make(map[int]*list.List),
		index:    make(map[K]*list.Element, capacity),
	}, nil
}

// NewFactory returns a policy.Factory that builds LFU engines.
func NewFactory[K comparable, V any]() policy.Factory[K, V] {
	return func(capacity int) (policy.Engine[K, V], error) {
		return New[K, V](capacity)
	}
}

// Put inserts or overwrites key. An existing key's value is overwritten
// and its frequency bumped by one, same as a touch on Get. A new key is
// admitted at frequency 1, evicting the head of the min-frequency
// bucket first if the engine was full.
func (e *Engine[K, V]) Put(key K, value V) {
	if el, ok := e.index[key]; ok {
		el.Value.(*entry[K, V]).value = value
		e.touch(el)
		return
	}
	if len(e.index) >= e.capacity {
		e.evictMin()
	}
	el := e.bucket(1).PushBack(&entry[K, V]{key: key, value: value, freq: 1})
	e.index[key] = el
	e.minFreq = 1
}

// Get looks up key, bumping its frequency by one on a hit.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	el, ok := e.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.touch(el)
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

// Remove idempotently erases key. Unlike a touch, removing the sole
// occupant of the minimum-frequency bucket requires a rescan: nothing
// guarantees a neighboring bucket is populated the way a touch does.
func (e *Engine[K, V]) Remove(key K) {
	el, ok := e.index[key]
	if !ok {
		return
	}
	ent := el.Value.(*entry[K, V])
	b := e.buckets[ent.freq]
	b.Remove(el)
	delete(e.index, key)
	if b.Len() == 0 {
		delete(e.buckets, ent.freq)
		if ent.freq == e.minFreq {
			e.rescanMinFreq()
		}
	}
}

// RemoveAll drops every entry, keeping capacity.
func (e *Engine[K, V]) RemoveAll() {
	e.buckets = make(map[int]*list.List)
	e.index = make(map[K]*list.Element, e.capacity)
	e.minFreq = 0
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

// touch moves el from its current bucket to freq+1, advancing minFreq
// by one when the vacated bucket was the minimum, sound because a
// touch raises frequency by exactly one, so the emptied bucket was the
// unique minimum and el now lives at min+1.
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

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
