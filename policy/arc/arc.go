// Package arc implements Adaptive Replacement Cache: two resident
// lists T1 (recent, one-touch) and T2 (frequent, multi-touch), two
// ghost lists B1 and B2 that remember evicted keys, and a self-tuning
// target p that governs which resident list replace() drains from.
package arc

import (
	"container/list"

	"github.com/kelkeby/evictcache/policy"
)

type residentEntry[K comparable, V any] struct {
	key   K
	value V
}

// Engine is a fixed-capacity ARC cache. Not safe for concurrent use.
type Engine[K comparable, V any] struct {
	capacity int
	p        int

	t1, t2 *list.List // residentEntry[K,V], front = MRU
	b1, b2 *list.List // bare K, front = MRU

	t1idx, t2idx map[K]*list.Element
	b1idx, b2idx map[K]*list.Element
}

// New constructs an ARC engine. It returns policy.ErrInvalidCapacity if
// capacity is not positive.
func New[K comparable, V any](capacity int) (*Engine[K, V], error) {
	if capacity <= 0 {
		return nil, policy.ErrInvalidCapacity
	}
	return &Engine[K, V]{
		capacity: capacity,
		t1:       list.New(),
		t2:       list.New(),
		b1:       list.New(),
		b2:       list.New(),
		t1idx:    make(map[K]*list.Element),
		t2idx:    make(map[K]*list.Element),
		b1idx:    make(map[K]*list.Element),
		b2idx:    make(map[K]*list.Element),
	}, nil
}

// NewFactory returns a policy.Factory that builds ARC engines.
func NewFactory[K comparable, V any]() policy.Factory[K, V] {
	return func(capacity int) (policy.Engine[K, V], error) {
		return New[K, V](capacity)
	}
}

// Get promotes a T1 hit to T2 and refreshes a T2 hit to T2's MRU end.
// It never touches the ghost lists.
func (e *Engine[K, V]) Get(key K) (V, bool) {
	if el, ok := e.t1idx[key]; ok {
		ent := el.Value.(*residentEntry[K, V])
		e.t1.Remove(el)
		delete(e.t1idx, key)
		e.t2idx[key] = e.t2.PushFront(ent)
		return ent.value, true
	}
	if el, ok := e.t2idx[key]; ok {
		ent := el.Value.(*residentEntry[K, V])
		e.t2.MoveToFront(el)
		return ent.value, true
	}
	var zero V
	return zero, false
}

// GetOrDefault returns def when key is absent; otherwise it behaves
// exactly like Get.
func (e *Engine[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := e.Get(key); ok {
		return v
	}
	return def
}

// Put implements the four ARC admission cases: resident update, ghost
// hit in B1 (adapt p up, favor recency), ghost hit in B2 (adapt p down,
// favor frequency), or a full miss.
func (e *Engine[K, V]) Put(key K, value V) {
	// Case A: resident update.
	if el, ok := e.t1idx[key]; ok {
		e.t1.Remove(el)
		delete(e.t1idx, key)
		e.t2idx[key] = e.t2.PushFront(&residentEntry[K, V]{key: key, value: value})
		return
	}
	if el, ok := e.t2idx[key]; ok {
		el.Value.(*residentEntry[K, V]).value = value
		e.t2.MoveToFront(el)
		return
	}

	c := e.capacity

	// Case B: ghost hit in B1, grow T1's target share.
	if el, ok := e.b1idx[key]; ok {
		delta := max(1, e.b2.Len()/e.b1.Len())
		e.p = min(c, e.p+delta)
		e.replace(false)
		e.b1.Remove(el)
		delete(e.b1idx, key)
		e.t2idx[key] = e.t2.PushFront(&residentEntry[K, V]{key: key, value: value})
		return
	}

	// Case C: ghost hit in B2, shrink T1's target share.
	if el, ok := e.b2idx[key]; ok {
		delta := max(1, e.b1.Len()/e.b2.Len())
		e.p = max(0, e.p-delta)
		e.replace(true)
		e.b2.Remove(el)
		delete(e.b2idx, key)
		e.t2idx[key] = e.t2.PushFront(&residentEntry[K, V]{key: key, value: value})
		return
	}

	// Case D: full miss.
	if e.t1.Len()+e.b1.Len() == c {
		if e.t1.Len() < c {
			e.dropLRU(e.b2, e.b2idx)
			e.replace(false)
		} else {
			// |T1| == c implies B1 is empty (invariant |T1|+|B1| <= c).
			e.evictResident(e.t1, e.t1idx, e.b1, e.b1idx)
		}
	} else if total := e.t1.Len() + e.t2.Len() + e.b1.Len() + e.b2.Len(); total >= c {
		if total == 2*c {
			e.dropLRU(e.b2, e.b2idx)
		}
		e.replace(false)
	}
	e.t1idx[key] = e.t1.PushFront(&residentEntry[K, V]{key: key, value: value})
}

// Remove idempotently erases key from whichever list it currently
// occupies (resident or ghost).
func (e *Engine[K, V]) Remove(key K) {
	if el, ok := e.t1idx[key]; ok {
		e.t1.Remove(el)
		delete(e.t1idx, key)
		return
	}
	if el, ok := e.t2idx[key]; ok {
		e.t2.Remove(el)
		delete(e.t2idx, key)
		return
	}
	if el, ok := e.b1idx[key]; ok {
		e.b1.Remove(el)
		delete(e.b1idx, key)
		return
	}
	if el, ok := e.b2idx[key]; ok {
		e.b2.Remove(el)
		delete(e.b2idx, key)
	}
}

// RemoveAll drops every resident and ghost entry, resetting p to 0 and
// keeping capacity.
func (e *Engine[K, V]) RemoveAll() {
	e.t1, e.t2, e.b1, e.b2 = list.New(), list.New(), list.New(), list.New()
	e.t1idx = make(map[K]*list.Element)
	e.t2idx = make(map[K]*list.Element)
	e.b1idx = make(map[K]*list.Element)
	e.b2idx = make(map[K]*list.Element)
	e.p = 0
}

// Len reports the number of resident entries (|T1|+|T2|); ghost lists
// hold no values and are not resident.
func (e *Engine[K, V]) Len() int { return e.t1.Len() + e.t2.Len() }

// replace evicts one resident entry to make room, pushing its key to
// the corresponding ghost list. It is ARC's single adaptation knob:
// keyInB2 only affects the tie-break when |T1| == p. When T2 is empty
// the victim comes from T1 whatever p is, so a call always evicts while
// any resident entry exists.
func (e *Engine[K, V]) replace(keyInB2 bool) {
	t1Len := e.t1.Len()
	if t1Len > 0 && (t1Len > e.p || (keyInB2 && t1Len == e.p) || e.t2.Len() == 0) {
		e.evictResident(e.t1, e.t1idx, e.b1, e.b1idx)
		return
	}
	e.evictResident(e.t2, e.t2idx, e.b2, e.b2idx)
}

// evictResident removes the LRU entry of `from`/`fromIdx` and pushes its
// bare key onto `ghost`/`ghostIdx`'s MRU end.
func (e *Engine[K, V]) evictResident(from *list.List, fromIdx map[K]*list.Element, ghost *list.List, ghostIdx map[K]*list.Element) {
	back := from.Back()
	if back == nil {
		return
	}
	ent := back.Value.(*residentEntry[K, V])
	from.Remove(back)
	delete(fromIdx, ent.key)
	ghostIdx[ent.key] = ghost.PushFront(ent.key)
}

func (e *Engine[K, V]) dropLRU(ghost *list.List, ghostIdx map[K]*list.Element) {
	back := ghost.Back()
	if back == nil {
		return
	}
	delete(ghostIdx, back.Value.(K))
	ghost.Remove(back)
}

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
