package core

import (
	"time"

	"github.com/google/uuid"

	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// Ring transitions. Callers hold c.mu.

func (c *Controller) ringAlarm(a *model.Alarm, now time.Time) {
	ref := c.resolveSound(&a.Sound)
	ts := now
	a.IsRinging = true
	a.FiredAt = &ts
	a.RangAt = nil
	c.ringing[DomainAlarm][a.ID] = ringEntry{ID: a.ID, Sound: ref, FiredAt: now}
	c.player.Play(ref, instanceKey(DomainAlarm, a.ID))
	c.notifier.Notify(notification.KindRing, "alarm.ringing", map[string]any{
		"id":    a.ID,
		"title": a.Title,
	})
}

func (c *Controller) ringTimer(t *model.Timer, now time.Time) {
	ref := c.resolveSound(&t.Sound)
	ts := now
	t.IsRunning = false
	t.TargetTime = nil
	t.IsRinging = true
	t.FiredAt = &ts
	t.RangAt = nil
	c.ringing[DomainTimer][t.ID] = ringEntry{ID: t.ID, Sound: ref, FiredAt: now}
	c.player.Play(ref, instanceKey(DomainTimer, t.ID))
	c.notifier.Notify(notification.KindRing, "timer.ringing", map[string]any{
		"id":    t.ID,
		"title": t.Title,
	})
}

// stopRinging removes the entity from the domain's ringing record and
// silences its sound instance.
func (c *Controller) stopRinging(d Domain, id string) {
	delete(c.ringing[d], id)
	c.player.Stop(instanceKey(d, id))
}

// DismissAlarm acknowledges a ringing alarm. The alarm is disabled and its
// transient ring state cleared; it will not fire again until re-enabled.
func (c *Controller) DismissAlarm(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.findAlarm(id)
	if a == nil {
		return ErrNotFound
	}
	if !a.IsRinging {
		return ErrNotRinging
	}
	c.stopRinging(DomainAlarm, id)
	a.IsRinging = false
	a.FiredAt = nil
	a.RangAt = nil
	a.Enabled = false
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.dismissed", map[string]any{"id": id})
	return nil
}

// SnoozeAlarm dismisses a ringing alarm and creates a fresh alarm entity for
// snooze-duration minutes from now. The new entity records its parent via
// SnoozedFrom.
func (c *Controller) SnoozeAlarm(id string) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a := c.findAlarm(id)
	if a == nil {
		return model.Alarm{}, ErrNotFound
	}
	if !a.IsRinging {
		return model.Alarm{}, ErrNotRinging
	}
	now := c.clock.Now()
	c.stopRinging(DomainAlarm, id)
	a.IsRinging = false
	a.FiredAt = nil
	a.RangAt = nil
	a.Enabled = false

	if len(c.userAlarms)+len(c.builtinAlarms) >= c.cfg.Limits.MaxAlarms {
		// The dismissal stands even when the snoozed copy cannot be created.
		c.saveAlarms()
		c.notifier.Notify(notification.KindLimit, "alarm.limit_reached", map[string]any{"id": id})
		return model.Alarm{}, ErrLimitExceeded
	}

	at := now.Add(c.cfg.Engine.SnoozeDuration)
	snoozed := &model.Alarm{
		ID:          uuid.NewString(),
		Title:       a.Title,
		Hour:        at.Hour(),
		Minute:      at.Minute(),
		Sound:       a.Sound,
		Enabled:     true,
		Kind:        model.KindUser,
		SectionID:   a.SectionID,
		Created:     now,
		SnoozedFrom: a.ID,
	}
	c.userAlarms = append(c.userAlarms, snoozed)
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.snoozed", map[string]any{
		"id":      id,
		"snoozed": snoozed.ID,
	})
	c.ensureTicking()
	return *snoozed, nil
}

// DismissTimer acknowledges a ringing timer. Countdown timers return to
// their initial duration, ready to start again.
func (c *Controller) DismissTimer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.findTimer(id)
	if t == nil {
		return ErrNotFound
	}
	if !t.IsRinging {
		return ErrNotRinging
	}
	c.stopRinging(DomainTimer, id)
	t.IsRinging = false
	t.FiredAt = nil
	t.RangAt = nil
	if t.Type == model.TimerCountdown {
		t.Remaining = t.InitialDuration
	} else {
		t.Remaining = 0
	}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.dismissed", map[string]any{"id": id})
	return nil
}

// RestartTimer re-arms a ringing countdown timer at its original duration.
func (c *Controller) RestartTimer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.findTimer(id)
	if t == nil {
		return ErrNotFound
	}
	if !t.IsRinging {
		return ErrNotRinging
	}
	if t.Type != model.TimerCountdown {
		return ErrInvalidState
	}
	now := c.clock.Now()
	c.stopRinging(DomainTimer, id)
	t.IsRinging = false
	t.FiredAt = nil
	t.RangAt = nil
	t.Remaining = t.InitialDuration
	target := now.Add(t.Remaining)
	t.TargetTime = &target
	t.IsRunning = true
	c.tickTable[id] = struct{}{}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.restarted", map[string]any{"id": id})
	c.ensureTicking()
	return nil
}
