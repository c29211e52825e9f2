// Package testutil provides deterministic test doubles for the registry.
package testutil

import (
	"sync"
	"time"
)

// FixedClock is a thread-safe clock pinned to a known instant.
//
// Unlike the system clock it only moves when a test calls Advance, so
// created_at/updated_at values are exact and golden dumps are stable
// across runs.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned to t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Use a positive d; the registry
// assumes a monotonic time source.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock to a new instant.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
