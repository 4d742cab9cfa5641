// Package utils provides logging, timing and host helpers.
package utils

import (
	"sync"
	"time"
)

// Clock abstracts the time source so durations can be measured deterministically in tests.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// NewRealClock creates a new RealClock instance.
func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time                  { return time.Now() }
func (c *RealClock) Since(t time.Time) time.Duration { return time.Since(t) }

// MockClock is a manually advanced Clock. It may optionally advance itself
// by a fixed step on every Now call, which makes each measured interval equal.
type MockClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewMockClock creates a new MockClock starting at startTime.
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{now: startTime}
}

// WithAutoAdvance makes every Now call advance the clock by step afterwards.
func (c *MockClock) WithAutoAdvance(step time.Duration) *MockClock {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
	return c
}

// Now returns the mock current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// Since returns the duration since t using mock time.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance advances the mock clock by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
