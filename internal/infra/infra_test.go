package infra

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("chart-1", "payload")

	v, ok := c.Get("chart-1")
	if !ok || v != "payload" {
		t.Fatalf("Get: got (%v, %v), want (payload, true)", v, ok)
	}
	if _, ok := c.Get("chart-2"); ok {
		t.Error("Get on a missing key should report false")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Minute)
	c.SetWithTTL("short", 1, 10*time.Millisecond)
	c.Set("long", 2)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry should not be returned")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("unexpired entry should survive")
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len: got %d, want 1 live entry", got)
	}

	c.Cleanup()
	if got := c.Len(); got != 1 {
		t.Errorf("Len after cleanup: got %d, want 1", got)
	}
}

func TestCacheInvalidateFlush(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("invalidated entry should be gone")
	}

	c.Flush()
	if got := c.Len(); got != 0 {
		t.Errorf("Len after flush: got %d, want 0", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow() {
		t.Error("third request should be throttled")
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait with a token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Error("Wait on an empty bucket should fail once the context ends")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	if !rl.Allow() {
		t.Fatal("initial token missing")
	}
	if rl.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.Allow() {
		t.Error("bucket should refill over time")
	}
}
