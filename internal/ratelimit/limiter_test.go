package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, maxCalls int, period time.Duration) (*Limiter, *fakeClock) {
	t.Helper()
	limiter, err := New(maxCalls, period)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	limiter.now = clock.Now
	return limiter, clock
}

func TestLimiter_InvalidConfig(t *testing.T) {
	if _, err := New(0, time.Second); err == nil {
		t.Error("expected error for maxCalls=0")
	}
	if _, err := New(5, 0); err == nil {
		t.Error("expected error for period=0")
	}
}

func TestLimiter_WindowCorrectness(t *testing.T) {
	limiter, clock := newTestLimiter(t, 5, 10*time.Second)

	for i := range 5 {
		if !limiter.Admit("client-1") {
			t.Fatalf("call %d within window should be admitted", i+1)
		}
	}

	if limiter.Admit("client-1") {
		t.Error("6th call within the window should be refused")
	}
	if limiter.Allow("client-1") {
		t.Error("Allow should report no capacity")
	}

	// capacity restores once the window elapses
	clock.Advance(11 * time.Second)
	if !limiter.Admit("client-1") {
		t.Error("call after window elapsed should be admitted")
	}
}

func TestLimiter_SlidingWindow(t *testing.T) {
	limiter, clock := newTestLimiter(t, 2, 10*time.Second)

	if !limiter.Admit("k") {
		t.Fatal("first call should be admitted")
	}
	clock.Advance(6 * time.Second)
	if !limiter.Admit("k") {
		t.Fatal("second call should be admitted")
	}
	if limiter.Admit("k") {
		t.Error("third call should be refused")
	}

	// first timestamp expires, second still in window
	clock.Advance(5 * time.Second)
	if !limiter.Admit("k") {
		t.Error("call should be admitted after oldest timestamp expired")
	}
	if limiter.Admit("k") {
		t.Error("window should be full again")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	if !limiter.Admit("a") {
		t.Fatal("first call for key a should be admitted")
	}
	if !limiter.Admit("b") {
		t.Error("key b should have its own capacity")
	}
	if limiter.Admit("a") {
		t.Error("key a should be exhausted")
	}
}

func TestLimiter_AllowDoesNotRecord(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	for range 10 {
		if !limiter.Allow("k") {
			t.Fatal("Allow alone must not consume capacity")
		}
	}

	limiter.Record("k")
	if limiter.Allow("k") {
		t.Error("capacity should be consumed after Record")
	}
}

func TestLimiter_ConcurrentAdmit(t *testing.T) {
	const maxCalls = 50
	limiter, _ := newTestLimiter(t, maxCalls, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Admit("shared") {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != maxCalls {
		t.Errorf("admitted %d calls, want exactly %d", admitted, maxCalls)
	}
}

func TestLimiter_PruneDropsIdleKeys(t *testing.T) {
	limiter, clock := newTestLimiter(t, 5, time.Second)

	limiter.Record("idle")
	clock.Advance(2 * time.Second)
	limiter.Allow("idle")

	limiter.mu.Lock()
	_, exists := limiter.calls["idle"]
	limiter.mu.Unlock()
	if exists {
		t.Error("fully expired key should be dropped from the map")
	}
}
