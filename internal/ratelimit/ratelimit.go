// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package ratelimit provides a fixed-window request counter that plugs
// into echo's rate limiter middleware.
package ratelimit

import (
	"sync"
	"time"
)

// window tracks the requests of one client in the current window.
type window struct {
	started time.Time
	count   int
}

// Store counts requests per client identifier within a fixed window and
// implements echo's middleware.RateLimiterStore. Counters reset at the
// window boundary.
type Store struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time

	lastCleanup time.Time
}

// NewStore creates a Store allowing limit requests per period for each
// client identifier.
func NewStore(limit int, period time.Duration) *Store {
	return &Store{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow reports whether the identified client may proceed.
func (s *Store) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.cleanup(now)

	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.started) >= s.period {
		w = &window{started: now}
		s.windows[identifier] = w
	}

	if w.count >= s.limit {
		return false, nil
	}
	w.count++
	return true, nil
}

// RetryAfter returns the time until the identified client's window
// resets. Zero when the client has no active window.
func (s *Store) RetryAfter(identifier string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok {
		return 0
	}
	remaining := s.period - s.now().Sub(w.started)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup drops expired windows. Called under s.mu, at most once per
// period, to keep the map from growing with one-shot clients.
func (s *Store) cleanup(now time.Time) {
	if now.Sub(s.lastCleanup) < s.period {
		return
	}
	for id, w := range s.windows {
		if now.Sub(w.started) >= s.period {
			delete(s.windows, id)
		}
	}
	s.lastCleanup = now
}
