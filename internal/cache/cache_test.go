package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	t.Parallel()

	cache := New[int]()

	if _, ok := cache.Get("missing"); ok {
		t.Fatalf("expected missing key")
	}

	cache.Set("a", 10)
	
	got, ok := cache.Get("a")
	if !ok {
		t.Fatalf("expected existing key")
	}
	
	if got != 10 {
		t.Fatalf("value = %d; want %d", got, 10)
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	t.Parallel()

	cache := New[int]()
	calls := 0

	got, err := cache.GetOrCompute("a", func() (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("value = %d; want %d", got, 42)
	}

	got, err = cache.GetOrCompute("a", func() (int, error) {
		calls++
		return 0, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("cached value = %d; want %d", got, 42)
	}
	if calls != 1 {
		t.Fatalf("compute calls = %d; want %d", calls, 1)
	}
}

func TestCacheGetOrComputeErrorNotCached(t *testing.T) {
	t.Parallel()

	cache := New[int]()
	boom := errors.New("boom")

	_, err := cache.GetOrCompute("a", func() (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	if cache.Len() != 0 {
		t.Fatalf("entries = %d; want %d", cache.Len(), 0)
	}

	got, err := cache.GetOrCompute("a", func() (int, error) {
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Fatalf("value = %d; want %d", got, 7)
	}
}

func TestCacheConcurrentSet(t *testing.T) {
	t.Parallel()

	cache := New[string]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", i)
			value := fmt.Sprintf("v-%d", i)
			cache.Set(key, value)
		}()
	}

	wg.Wait()

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("k-%d", i)
		want := fmt.Sprintf("v-%d", i)
		
		got, ok := cache.Get(key)
		if !ok {
			t.Fatalf("missing key %q", key)
		}
		
		if got != want {
			t.Fatalf("value for %q = %q; want %q", key, got, want)
		}
	}
}
