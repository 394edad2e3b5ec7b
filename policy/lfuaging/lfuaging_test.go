package lfuaging

import (
	"errors"
	"testing"

	"github.com/kelkeby/evictcache/policy"
)

func TestNew_InvalidCapacity(t *testing.T) {
	t.Parallel()

	if _, err := New[string, int](0, DefaultMaxAvgFreqLimit); !errors.Is(err, policy.ErrInvalidCapacity) {
		t.Fatalf("New(0, ...) err = %v; want ErrInvalidCapacity", err)
	}
}

func TestNew_NonPositiveLimitFallsBackToDefault(t *testing.T) {
	t.Parallel()

	e, err := New[string, int](2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if e.maxAvgFreqLimit != DefaultMaxAvgFreqLimit {
		t.Fatalf("maxAvgFreqLimit = %v; want default %v", e.maxAvgFreqLimit, DefaultMaxAvgFreqLimit)
	}
}

// capacity=3, max_avg=2. Repeatedly touching a single key keeps its
// frequency from accumulating without bound (aging decays it back down
// every time the average crosses the limit), so a later eviction is
// decided by relative freshness rather than a's inflated historical hit
// count. b and c are admitted after the aging storm at frequency 1
// each, in that order; when capacity forces an eviction on put(d,4),
// the oldest-inserted, lowest-frequency entry, b, is the victim, even
// though a has been touched far more than either.
func TestLFUAging_CapacityThreeMaxAvgTwoScenario(t *testing.T) {
	t.Parallel()

	e, err := New[string, int](3, 2.0)
	if err != nil {
		t.Fatal(err)
	}

	e.Put("a", 1)
	for i := 0; i < 5; i++ {
		if _, ok := e.Get("a"); !ok {
			t.Fatal("a must remain resident across repeated touches")
		}
	}
	e.Put("b", 2)
	e.Put("c", 3)
	e.Put("d", 4)

	if _, ok := e.Get("b"); ok {
		t.Fatal("b should have been evicted: lowest frequency, oldest among ties")
	}
	for k, want := range map[string]int{"a": 1, "c": 3, "d": 4} {
		if v, ok := e.Get(k); !ok || v != want {
			t.Fatalf("get(%s) = %v, %v; want %d, true", k, v, ok, want)
		}
	}
	if e.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", e.Len())
	}
}

func TestLFUAging_TotalFreqSumMatchesResidentSum(t *testing.T) {
	t.Parallel()

	e, _ := New[int, int](4, 3.0)
	for i := 0; i < 4; i++ {
		e.Put(i, i)
	}
	for i := 0; i < 10; i++ {
		e.Get(i % 4)
	}

	sum := 0
	for _, el := range e.index {
		sum += el.Value.(*entry[int, int]).freq
	}
	if sum != e.totalFreqSum {
		t.Fatalf("sum of resident freqs = %d; totalFreqSum = %d", sum, e.totalFreqSum)
	}
}

func TestLFUAging_AgingNeverEvictsByItself(t *testing.T) {
	t.Parallel()

	e, _ := New[int, int](5, 1.0) // low limit: aging fires constantly
	for i := 0; i < 5; i++ {
		e.Put(i, i)
	}
	for i := 0; i < 200; i++ {
		e.Get(i % 5)
	}

	if e.Len() != 5 {
		t.Fatalf("Len() = %d; want 5 (aging must not evict)", e.Len())
	}
}

func TestLFUAging_RemoveAllResetsState(t *testing.T) {
	t.Parallel()

	e, _ := New[string, int](2, DefaultMaxAvgFreqLimit)
	e.Put("a", 1)
	e.RemoveAll()

	if e.Len() != 0 || e.totalFreqSum != 0 || e.minFreq != 0 {
		t.Fatalf("after RemoveAll: Len()=%d totalFreqSum=%d minFreq=%d; want 0,0,0",
			e.Len(), e.totalFreqSum, e.minFreq)
	}
}

var _ policy.Engine[int, int] = (*Engine[int, int])(nil)
