package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process sliding-window limiter.
type Memory struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewMemory creates a limiter allowing limit requests per window for each key.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key if it is within the limit.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	recent := fresh(m.requests[key], now.Add(-m.window))
	if len(recent) >= m.limit {
		m.requests[key] = recent
		return false, nil
	}
	m.requests[key] = append(recent, now)
	return true, nil
}

// Run evicts expired keys every window until ctx is done.
func (m *Memory) Run(ctx context.Context) {
	ticker := time.NewTicker(m.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *Memory) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.window)
	for key, times := range m.requests {
		if recent := fresh(times, cutoff); len(recent) == 0 {
			delete(m.requests, key)
		} else {
			m.requests[key] = recent
		}
	}
}

func (m *Memory) keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func fresh(times []time.Time, cutoff time.Time) []time.Time {
	var out []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			out = append(out, t)
		}
	}
	return out
}
