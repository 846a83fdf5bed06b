package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a value")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %v, %v, want 2", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s was evicted", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := New[int, string](8)
	for i := range 5 {
		c.Set(i, strconv.Itoa(i))
	}
	if !c.Delete(3) || c.Delete(3) {
		t.Error("Delete(3) should succeed exactly once")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Set(9, "9")
	if v, ok := c.Get(9); !ok || v != "9" {
		t.Error("cache unusable after Clear")
	}
}

func TestStats(t *testing.T) {
	tests := []struct {
		name string
		s    Stats
		want float64
	}{
		{"no lookups", Stats{}, 0},
		{"all hits", Stats{Hits: 4}, 1},
		{"quarter", Stats{Hits: 1, Misses: 3}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.HitRate(); got != tt.want {
				t.Errorf("HitRate() = %v, want %v", got, tt.want)
			}
		})
	}

	c := New[string, int](0)
	if c.Stats().Capacity != 1 {
		t.Errorf("capacity 0 not raised to 1: %+v", c.Stats())
	}
}

func TestConcurrent(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				c.Set((g*200+i)%32, i)
				c.Get(i % 32)
			}
		}()
	}
	wg.Wait()
	if n := c.Len(); n > 16 {
		t.Errorf("Len() = %d exceeds capacity", n)
	}
}
