package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter keyed by caller identity. It is
// the admission gate in front of the guard pipeline, not part of it. All map
// access happens under one mutex; expired timestamps are pruned lazily on
// every call, never by a background task.
type Limiter struct {
	mu       sync.Mutex
	maxCalls int
	period   time.Duration
	calls    map[string][]time.Time
	now      func() time.Time
}

func New(maxCalls int, period time.Duration) (*Limiter, error) {
	if maxCalls <= 0 {
		return nil, fmt.Errorf("maxCalls must be positive, got %d", maxCalls)
	}
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %s", period)
	}
	return &Limiter{
		maxCalls: maxCalls,
		period:   period,
		calls:    make(map[string][]time.Time),
		now:      time.Now,
	}, nil
}

// Allow reports whether a call for key would currently be admitted. It does
// not record anything.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(key, l.now())
	return len(l.calls[key]) < l.maxCalls
}

// Record registers one call for key.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(key, now)
	l.calls[key] = append(l.calls[key], now)
}

// Admit combines Allow and Record under one lock so concurrent callers
// cannot both observe spare capacity and then exceed it.
func (l *Limiter) Admit(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(key, now)
	if len(l.calls[key]) >= l.maxCalls {
		return false
	}
	l.calls[key] = append(l.calls[key], now)
	return true
}

// prune drops timestamps older than the window. Must be called holding l.mu.
// Timestamps are appended in order, so everything after the first retained
// entry is retained too.
func (l *Limiter) prune(key string, now time.Time) {
	timestamps := l.calls[key]
	cutoff := now.Add(-l.period)

	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}

	if i == len(timestamps) {
		delete(l.calls, key)
		return
	}
	l.calls[key] = timestamps[i:]
}
