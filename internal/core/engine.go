package core

import "time"

// The tick driver. One central loop serves every live countdown and the
// enabled-alarm minute matcher, instead of one self-rescheduling callback per
// entity: cancellation is a table removal, and a removed or mutated entity
// can never be resurrected by a stale callback.

// ensureTicking schedules the next tick if work remains and none is pending.
// Callers hold c.mu.
func (c *Controller) ensureTicking() {
	if c.closed || c.tickHandle != 0 {
		return
	}
	if len(c.tickTable) == 0 && !c.anyEnabledAlarm() {
		return
	}
	c.tickHandle = c.clock.Schedule(c.cfg.Engine.TickInterval, c.onTick)
}

func (c *Controller) anyEnabledAlarm() bool {
	for _, a := range c.allAlarms() {
		if a.Enabled || a.IsRinging {
			return true
		}
	}
	return false
}

func (c *Controller) onTick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickHandle = 0
	if c.closed {
		return
	}
	now := c.clock.Now()
	c.tickTimers(now)
	c.tickAlarms(now)
	c.ensureTicking()
}

// tickTimers recomputes every live countdown from its absolute target. The
// remaining value is derived, never decremented, so tick-rate jitter and
// long host pauses cannot accumulate drift.
func (c *Controller) tickTimers(now time.Time) {
	completed := false
	for id := range c.tickTable {
		t := c.findTimer(id)
		if t == nil || !t.IsRunning || t.Target() == nil {
			// Stale entry: the timer was paused, dismissed or deleted
			// after this tick was scheduled.
			delete(c.tickTable, id)
			continue
		}
		remaining := t.Target().Sub(now)
		if remaining <= 0 {
			t.Remaining = 0
			delete(c.tickTable, id)
			c.ringTimer(t, now)
			completed = true
			continue
		}
		t.Remaining = remaining
	}
	if completed {
		c.saveTimers()
	}
}

// tickAlarms fires enabled alarms whose hour:minute matches the wall clock.
// The retrigger guard prevents a double fire within one matching minute.
func (c *Controller) tickAlarms(now time.Time) {
	fired := false
	for _, a := range c.allAlarms() {
		if !a.Enabled || a.IsRinging {
			continue
		}
		if now.Hour() != a.Hour || now.Minute() != a.Minute {
			continue
		}
		if a.LastTriggered != nil && now.Sub(*a.LastTriggered) < c.cfg.Engine.RetriggerGuard {
			continue
		}
		ts := now
		a.LastTriggered = &ts
		c.ringAlarm(a, now)
		fired = true
	}
	if fired {
		c.saveAlarms()
	}
}
