// Package clock abstracts wall-clock access and tick scheduling so the
// scheduling engine can be driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Handle identifies a pending scheduled callback. The zero Handle is never
// issued.
type Handle uint64

// Clock provides the current time, one-shot callback scheduling, and
// synchronous cancellation of a pending callback.
type Clock interface {
	Now() time.Time
	Schedule(d time.Duration, fn func()) Handle
	Cancel(h Handle) bool
}

// SystemClock is the production Clock backed by the runtime timer wheel.
type SystemClock struct {
	mu      sync.Mutex
	nextID  Handle
	pending map[Handle]*time.Timer
}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{pending: make(map[Handle]*time.Timer)}
}

// Now returns the current wall-clock time.
func (c *SystemClock) Now() time.Time { return time.Now() }

// Schedule arranges for fn to run once after d and returns its handle.
func (c *SystemClock) Schedule(d time.Duration, fn func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	h := c.nextID
	c.pending[h] = time.AfterFunc(d, func() {
		c.mu.Lock()
		delete(c.pending, h)
		c.mu.Unlock()
		fn()
	})
	return h
}

// Cancel stops a pending callback. It reports whether the callback was still
// pending; a callback that already fired (or is firing) returns false.
func (c *SystemClock) Cancel(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.pending[h]
	if !ok {
		return false
	}
	delete(c.pending, h)
	return t.Stop()
}
