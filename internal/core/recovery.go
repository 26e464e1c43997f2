package core

import (
	"log"
	"time"

	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// Recover reconciles persisted entity state against the wall clock once at
// startup, before the tick driver starts. The in-memory scheduler cannot
// fire callbacks while the process is down; recovery decides what *should*
// have fired in the gap and records that it happened (fire-and-mark), rather
// than replaying sounds and ring screens for a past the process never saw.
//
// Running Recover twice with no time elapsed in between is a no-op the
// second time.
func (c *Controller) Recover() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	alarmLast, haveAlarmLast := c.loadLastActive(gateway.KeyAlarmLastActive)
	timerLast, haveTimerLast := c.loadLastActive(gateway.KeyTimerLastActive)

	c.seedBuiltins()

	for _, a := range c.allAlarms() {
		c.recoverAlarm(a, alarmLast, haveAlarmLast, now)
	}
	for _, t := range c.allTimers() {
		c.recoverTimer(t, timerLast, haveTimerLast, now)
	}
	c.ensurePinned()

	c.saveAlarms()
	c.saveTimers()
	c.saveAlarmSections()
	c.saveTimerSections()
}

// recoverAlarm resolves one alarm. It works on a copy and writes back only
// on success, so a panic leaves the entity in its last known-good state and
// never aborts reconciliation of its siblings.
func (c *Controller) recoverAlarm(a *model.Alarm, last time.Time, haveLast bool, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovery: alarm %s left unchanged: %v", a.ID, r)
		}
	}()
	cp := *a

	switch {
	case cp.IsRinging:
		// It was screaming when the process died. Finalize: record when it
		// rang and surface a "rang N ago" marker instead of resuming the
		// ring screen.
		when := fireEstimate(cp.FiredAt, last, haveLast, now)
		cp.IsRinging = false
		cp.Enabled = false
		cp.FiredAt = nil
		cp.RangAt = &when
		*a = cp
		c.notifier.Notify(notification.KindMissed, "alarm.missed", map[string]any{
			"id":     a.ID,
			"rangAt": when,
		})
	case cp.Enabled && haveLast:
		// The daily trigger may have come around while the process was
		// down. Only count occurrences after the alarm existed.
		occ := cp.LastOccurrence(now)
		if occ.After(last) && occ.Before(now) && cp.Created.Before(occ) {
			cp.Enabled = false
			cp.LastTriggered = nil
			cp.RangAt = &occ
			*a = cp
			c.notifier.Notify(notification.KindMissed, "alarm.missed", map[string]any{
				"id":     a.ID,
				"rangAt": occ,
			})
		}
	}
}

// recoverTimer resolves one timer, with the same copy-then-commit isolation
// as recoverAlarm.
func (c *Controller) recoverTimer(t *model.Timer, last time.Time, haveLast bool, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovery: timer %s left unchanged: %v", t.ID, r)
		}
	}()
	cp := *t

	switch {
	case cp.IsRinging:
		when := fireEstimate(cp.FiredAt, last, haveLast, now)
		if cp.TargetTime != nil {
			when = *cp.TargetTime
		}
		cp.IsRinging = false
		cp.IsRunning = false
		cp.TargetTime = nil
		cp.FiredAt = nil
		cp.RangAt = &when
		cp.Remaining = 0
		*t = cp
		c.notifier.Notify(notification.KindMissed, "timer.missed", map[string]any{
			"id":     t.ID,
			"rangAt": when,
		})
	case cp.IsRunning:
		target := cp.Target()
		if target == nil {
			// Running without a target is a corrupt record; stop it.
			cp.IsRunning = false
			*t = cp
			return
		}
		if target.After(now) {
			// The absolute target survived the outage; resume without
			// drift.
			cp.Remaining = target.Sub(now)
			tt := *target
			cp.TargetTime = &tt
			*t = cp
			c.tickTable[t.ID] = struct{}{}
			return
		}
		// Natural completion was missed while the process was down.
		when := *target
		cp.IsRunning = false
		cp.IsRinging = false
		cp.TargetTime = nil
		cp.Remaining = 0
		cp.RangAt = &when
		*t = cp
		c.notifier.Notify(notification.KindMissed, "timer.missed", map[string]any{
			"id":     t.ID,
			"rangAt": when,
		})
	}
}

// fireEstimate is the best-effort "when did it ring" for an entity persisted
// mid-ring. An exact persisted fire timestamp wins; otherwise the midpoint
// of the last-active gap is used, matching the approximate "rang a while
// ago" the marker conveys.
func fireEstimate(fired *time.Time, last time.Time, haveLast bool, now time.Time) time.Time {
	if fired != nil {
		return *fired
	}
	if haveLast && last.Before(now) {
		return last.Add(now.Sub(last) / 2)
	}
	return now
}

// ensurePinned restores the pinning invariant: exactly one pinned timer
// whenever the domain is non-empty. Callers hold c.mu.
func (c *Controller) ensurePinned() {
	timers := c.allTimers()
	if len(timers) == 0 {
		return
	}
	seen := false
	for _, t := range timers {
		if !t.IsPinned {
			continue
		}
		if seen {
			t.IsPinned = false
			continue
		}
		seen = true
	}
	if !seen {
		timers[0].IsPinned = true
	}
}

// seedBuiltins merges the builtin templates into the persisted builtin
// collections by id, never clobbering an existing instance. This keeps the
// defaults present across schema evolution without losing user state on
// them.
func (c *Controller) seedBuiltins() {
	have := make(map[string]bool, len(c.builtinAlarms))
	for _, a := range c.builtinAlarms {
		have[a.ID] = true
	}
	for _, tpl := range builtinAlarmTemplates() {
		if !have[tpl.ID] {
			c.builtinAlarms = append(c.builtinAlarms, tpl)
		}
	}

	haveT := make(map[string]bool, len(c.builtinTimers))
	for _, t := range c.builtinTimers {
		haveT[t.ID] = true
	}
	for _, tpl := range builtinTimerTemplates() {
		if !haveT[tpl.ID] {
			c.builtinTimers = append(c.builtinTimers, tpl)
		}
	}
}
