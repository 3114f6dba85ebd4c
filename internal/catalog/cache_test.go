package catalog

import (
	"sync"
	"testing"

	"github.com/pfrederiksen/skate-results/internal/period"
)

func TestMonthCache_Resolve(t *testing.T) {
	cache := NewMonthCache()

	t.Run("hint is authoritative", func(t *testing.T) {
		src := &Source{BaseURL: "https://e/hint/", MonthHint: 9}
		got := cache.Resolve(src, func() period.Month {
			t.Error("compute called for a source with a month hint")
			return 3
		})
		if got != 9 {
			t.Errorf("Resolve() = %d, want 9", got)
		}
	})

	t.Run("computed once then memoized", func(t *testing.T) {
		src := &Source{BaseURL: "https://e/auto/"}
		calls := 0
		compute := func() period.Month {
			calls++
			return 10
		}

		for i := 0; i < 3; i++ {
			if got := cache.Resolve(src, compute); got != 10 {
				t.Errorf("Resolve() = %d, want 10", got)
			}
		}
		if calls != 1 {
			t.Errorf("compute called %d times, want 1", calls)
		}
	})

	t.Run("unknown is not memoized", func(t *testing.T) {
		src := &Source{BaseURL: "https://e/unknown/"}
		calls := 0
		compute := func() period.Month {
			calls++
			return period.Unknown
		}

		cache.Resolve(src, compute)
		cache.Resolve(src, compute)
		if calls != 2 {
			t.Errorf("compute called %d times, want 2", calls)
		}
		if _, ok := cache.Get(src); ok {
			t.Error("Get() found an unknown month")
		}
	})
}

func TestMonthCache_SnapshotSeed(t *testing.T) {
	a := NewMonthCache()
	a.Set(&Source{BaseURL: "https://e/1/"}, 10)
	a.Set(&Source{BaseURL: "https://e/2/"}, 12)

	b := NewMonthCache()
	b.Seed(a.Snapshot())
	b.Seed(map[string]int{"https://e/bad/": 0})

	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	if m, ok := b.Get(&Source{BaseURL: "https://e/2/"}); !ok || m != 12 {
		t.Errorf("Get() = %d, %v, want 12, true", m, ok)
	}
}

func TestMonthCache_Concurrent(t *testing.T) {
	cache := NewMonthCache()
	src := &Source{BaseURL: "https://e/race/"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Resolve(src, func() period.Month { return 11 })
		}()
	}
	wg.Wait()

	if m, ok := cache.Get(src); !ok || m != 11 {
		t.Errorf("Get() = %d, %v, want 11, true", m, ok)
	}
}
