package lfu

import (
	"errors"
	"testing"

	"github.com/kelkeby/evictcache/policy"
)

func TestNew_InvalidCapacity(t *testing.T) {
	t.Parallel()

	if _, err := New[string, int](0); !errors.Is(err, policy.ErrInvalidCapacity) {
		t.Fatalf("New(0) err = %v; want ErrInvalidCapacity", err)
	}
}

// capacity=2, put(a,1) put(b,2), get(a) twice, put(c,3) evicts b
// (frequency 1) not a (frequency 3).
func TestLFU_CapacityTwoScenario(t *testing.T) {
	t.Parallel()

	e, err := New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}

	e.Put("a", 1)
	e.Put("b", 2)
	e.Get("a")
	e.Get("a")
	e.Put("c", 3)

	if _, ok := e.Get("b"); ok {
		t.Fatal("get(b) should miss: b had the lowest frequency")
	}
	if v, ok := e.Get("a"); !ok || v != 1 {
		t.Fatalf("get(a) = %v, %v; want 1, true", v, ok)
	}
	if v, ok := e.Get("c"); !ok || v != 3 {
		t.Fatalf("get(c) = %v, %v; want 3, true", v, ok)
	}
	if e.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", e.Len())
	}
}

func TestLFU_TiesBreakByInsertionOrder(t *testing.T) {
	t.Parallel()

	e, _ := New[string, int](2)
	e.Put("a", 1) // freq 1, oldest
	e.Put("b", 2) // freq 1, newer

	// Both at frequency 1; a was inserted first so a is evicted.
	e.Put("c", 3)

	if _, ok := e.Get("a"); ok {
		t.Fatal("a should have been evicted (oldest at min frequency)")
	}
	if _, ok := e.Get("b"); !ok {
		t.Fatal("b should still be resident")
	}
}

func TestLFU_MinFreqTracksResidentMinimum(t *testing.T) {
	t.Parallel()

	e, _ := New[string, int](3)
	e.Put("a", 1)
	e.Put("b", 2)
	e.Put("c", 3)
	e.Get("a")
	e.Get("a")
	e.Get("b")

	if e.minFreq != 1 {
		t.Fatalf("minFreq = %d; want 1 (c is untouched)", e.minFreq)
	}

	e.Remove("c")
	if e.minFreq != 2 {
		t.Fatalf("minFreq after removing the sole freq-1 entry = %d; want 2", e.minFreq)
	}
}

func TestLFU_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	e, _ := New[string, int](2)
	e.Put("a", 1)
	e.Remove("a")
	e.Remove("a")

	if e.Len() != 0 {
		t.Fatalf("Len() = %d; want 0", e.Len())
	}
}

func TestLFU_RemoveAllResetsState(t *testing.T) {
	t.Parallel()

	e, _ := New[string, int](2)
	e.Put("a", 1)
	e.Put("b", 2)
	e.RemoveAll()

	if e.Len() != 0 || e.minFreq != 0 {
		t.Fatalf("after RemoveAll: Len()=%d minFreq=%d; want 0, 0", e.Len(), e.minFreq)
	}
	if _, ok := e.Get("a"); ok {
		t.Fatal("a must be absent after RemoveAll")
	}
}

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
