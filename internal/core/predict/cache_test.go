package predict

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheHitMissExpiry(t *testing.T) {
	clock := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	c := NewCache(10*time.Minute, 8)
	c.now = func() time.Time { return clock }

	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache must miss")
	}

	s := &Slate{}
	c.Put("k", s)
	if got, ok := c.Get("k"); !ok || got != s {
		t.Fatal("expected hit with the stored pointer")
	}

	clock = clock.Add(10*time.Minute + time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry must miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not removed, len = %d", c.Len())
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	clock := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	c := NewCache(time.Hour, 10)
	c.now = func() time.Time { return clock }

	for i := 0; i < 11; i++ {
		c.Put(fmt.Sprintf("k%d", i), &Slate{})
		clock = clock.Add(time.Second)
	}

	// Exceeding the cap by one evicts the single oldest entry.
	if c.Len() != 10 {
		t.Fatalf("len = %d, want 10", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get("k10"); !ok {
		t.Error("newest entry must survive eviction")
	}
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	clock := time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)
	c := NewCache(0, 4)
	c.now = func() time.Time { return clock }

	c.Put("k", &Slate{})
	clock = clock.Add(1000 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Error("ttl 0 should disable expiry")
	}
}
