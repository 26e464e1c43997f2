package clock

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when Advance is called.
// Callbacks fire synchronously inside Advance, in due order, which makes
// engine behavior fully deterministic under test.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  Handle
	pending map[Handle]*manualEntry
}

type manualEntry struct {
	at time.Time
	fn func()
}

// NewManualClock creates a ManualClock positioned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, pending: make(map[Handle]*manualEntry)}
}

// Now returns the clock's current position.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Schedule registers fn to fire once the clock advances past d from now.
func (c *ManualClock) Schedule(d time.Duration, fn func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	h := c.nextID
	c.pending[h] = &manualEntry{at: c.now.Add(d), fn: fn}
	return h
}

// Cancel removes a pending callback and reports whether it was still pending.
func (c *ManualClock) Cancel(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[h]
	delete(c.pending, h)
	return ok
}

// Advance moves the clock forward by d, firing every callback that falls due
// along the way. Callbacks may schedule further callbacks; those fire too if
// they fall within the advanced window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	deadline := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var due []Handle
		for h, e := range c.pending {
			if !e.at.After(deadline) {
				due = append(due, h)
			}
		}
		if len(due) == 0 {
			c.now = deadline
			c.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			a, b := c.pending[due[i]], c.pending[due[j]]
			if a.at.Equal(b.at) {
				return due[i] < due[j]
			}
			return a.at.Before(b.at)
		})
		h := due[0]
		e := c.pending[h]
		delete(c.pending, h)
		if e.at.After(c.now) {
			c.now = e.at
		}
		c.mu.Unlock()

		e.fn()
	}
}

// Pending returns the number of scheduled callbacks, for leak assertions.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
