package testutil

import (
	"sync"
	"time"
)

// DeterministicClock stands in for time.Now in ingestion tests. The n-th
// call to Now returns start + n*step, so recorded run times are stable
// across test executions. Methods may be called from several goroutines.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock whose first Now() returns start.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step}
}

// Now returns the next instant.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Rewind makes the next Now return start again.
func (c *DeterministicClock) Rewind() {
	c.mu.Lock()
	c.calls = 0
	c.mu.Unlock()
}
