// Package lru implements the classical Least-Recently-Used eviction
// engine: an O(1) move-to-front list plus a key index.
package lru

import (
	"container/list"

	"github.com/kelkeby/evictcache/policy"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Engine is a fixed-capacity LRU cache. The zero value is not usable;
// construct with New. Engine is not safe for concurrent use, wrap it
// with package cache for that.
type Engine[K comparable, V any] struct {
	capacity int
	ll       *list.List // front = most-recent, back = least-recent
	index    map[K]*list.Element
}

// New constructs an LRU engine. It returns policy.ErrInvalidCapacity if
// capacity is not positive.
func New[K comparable, V any](capacity int) (*Engine[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrInvalidCapacity
	}
	return &Engine[K, V]{
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[K]*list.Element, capacity),
	}, nil
}

// NewFactory returns a policy.Factory that builds LRU engines, for use
// as the inner policy of the sharded wrapper.
func NewFactory[K comparable, V any]() policy.Factory[K, V] {
	return func(capacity int) (policy.Engine[K, V], error) {
		return New[K, V](capacity)
	}
}

// Put inserts or overwrites key. An existing key is overwritten and
// moved to the most-recent end; a new key is inserted at the
// most-recent end and, if the engine was full, evicts the
// least-recently-used entry.
func (e *Engine[K, V]) Put(key K, value V) {
	if el, ok := e.index[key]; ok {
		el.Value.(*entry[K, V]).value = value
		e.ll.MoveToFront(el)
		return
	}
	if e.ll.Len() >= e.capacity {
		e.evictOldest()
	}
	el := e.ll.PushFront(&entry[K, V]{key: key, value: value})
	e.index[key] = el
}

// Get looks up key, promoting it to the most-recent end on a hit.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	el, ok := e.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.ll.MoveToFront(el)
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
	e.ll.Remove(el)
	delete(e.index, key)
}

// RemoveAll drops every entry, keeping capacity.
func (e *Engine[K, V]) RemoveAll() {
	e.ll.Init()
	e.index = make(map[K]*list.Element, e.capacity)
}

// Len reports the number of resident entries.
func (e *Engine[K, V]) Len() int { return e.ll.Len() }

func (e *Engine[K, V]) evictOldest() {
	back := e.ll.Back()
	if back == nil {
		return
	}
	e.ll.Remove(back)
	delete(e.index, back.Value.(*entry[K, V]).key)
}

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
