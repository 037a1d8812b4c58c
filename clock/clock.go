// Package clock provides the monotonic clock shared by the input
// pipeline. Every component that does debounce math or timestamp
// comparison receives the same Clock instance, so "oldest" and
// "elapsed" mean the same thing everywhere.
package clock

import (
	"sync"
	"time"
)

// Clock supplies monotonic time to the runtime.
type Clock interface {
	// Now returns the current monotonic time.
	Now() time.Time
}

// System is the real wall/monotonic clock.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Manual is a hand-advanced clock for tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Set jumps the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
