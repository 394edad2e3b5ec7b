package policy_test

import (
	"errors"
	"testing"

	"github.com/kelkeby/evictcache/policy"
	"github.com/kelkeby/evictcache/policy/lru"
)

func TestGet_HitReturnsValue(t *testing.T) {
	t.Parallel()

	e, err := lru.New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}
	e.Put("a", 1)

	v, err := policy.Get[string, int](e, "a")
	if err != nil || v != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, nil", v, err)
	}
}

func TestGet_MissReturnsErrKeyNotFound(t *testing.T) {
	t.Parallel()

	e, err := lru.New[string, int](2)
	if err != nil {
		t.Fatal(err)
	}

	_, err = policy.Get[string, int](e, "missing")
	if !errors.Is(err, policy.ErrKeyNotFound) {
		t.Fatalf("Get(missing) err = %v; want ErrKeyNotFound", err)
	}
}

func TestFactory_PropagatesInvalidCapacity(t *testing.T) {
	t.Parallel()

	factory := lru.NewFactory[string, int]()
	if _, err := factory(0); !errors.Is(err, policy.ErrInvalidCapacity) {
		t.Fatalf("factory(0) err = %v; want ErrInvalidCapacity", err)
	}
}
