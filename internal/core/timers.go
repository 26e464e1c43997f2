package core

import (
	"time"

	"github.com/google/uuid"

	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// CreateTimerParams are the caller-supplied fields of a new timer.
type CreateTimerParams struct {
	Title      string          `json:"title"`
	Type       model.TimerType `json:"type"`
	Sound      string          `json:"sound"`
	SectionID  string          `json:"sectionId"`
	Duration   time.Duration   `json:"duration"`
	TargetDate *time.Time      `json:"targetDate"`
}

// UpdateTimerParams carries optional field updates; nil means unchanged.
type UpdateTimerParams struct {
	Title      *string        `json:"title"`
	Sound      *string        `json:"sound"`
	SectionID  *string        `json:"sectionId"`
	Duration   *time.Duration `json:"duration"`
	TargetDate *time.Time     `json:"targetDate"`
}

// CreateTimer adds a user timer. The first timer in the domain becomes
// pinned, keeping the primary display populated.
func (c *Controller) CreateTimer(p CreateTimerParams) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, ""); err != nil {
		return model.Timer{}, err
	}
	switch p.Type {
	case model.TimerCountdown:
		if p.Duration <= 0 {
			return model.Timer{}, ErrInvalidInput
		}
	case model.TimerCountToDate:
		if p.TargetDate == nil {
			return model.Timer{}, ErrInvalidInput
		}
	default:
		return model.Timer{}, ErrInvalidInput
	}
	if len(c.userTimers)+len(c.builtinTimers) >= c.cfg.Limits.MaxTimers {
		c.notifier.Notify(notification.KindLimit, "timer.limit_reached", nil)
		return model.Timer{}, ErrLimitExceeded
	}
	if p.Sound == "" {
		p.Sound = c.sounds.FallbackID()
	}
	now := c.clock.Now()
	t := &model.Timer{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Type:      p.Type,
		Sound:     p.Sound,
		Kind:      model.KindUser,
		SectionID: p.SectionID,
		Created:   now,
		IsPinned:  len(c.userTimers)+len(c.builtinTimers) == 0,
	}
	if p.Type == model.TimerCountdown {
		t.InitialDuration = p.Duration
		t.Remaining = p.Duration
	} else {
		td := *p.TargetDate
		t.TargetDate = &td
		if rem := td.Sub(now); rem > 0 {
			t.Remaining = rem
		}
	}
	c.userTimers = append(c.userTimers, t)
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.created", map[string]any{"id": t.ID})
	return *t, nil
}

// UpdateTimer applies the non-nil fields of p. Duration and target-date
// changes are rejected while the timer is running; pause it first.
func (c *Controller) UpdateTimer(id string, p UpdateTimerParams) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return model.Timer{}, err
	}
	t := c.findTimer(id)
	if t == nil {
		return model.Timer{}, ErrNotFound
	}
	if (p.Duration != nil || p.TargetDate != nil) && t.IsRunning {
		return model.Timer{}, ErrInvalidState
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Sound != nil {
		t.Sound = *p.Sound
	}
	if p.SectionID != nil {
		t.SectionID = *p.SectionID
	}
	if p.Duration != nil && t.Type == model.TimerCountdown {
		if *p.Duration <= 0 {
			return model.Timer{}, ErrInvalidInput
		}
		t.InitialDuration = *p.Duration
		t.Remaining = *p.Duration
	}
	if p.TargetDate != nil && t.Type == model.TimerCountToDate {
		td := *p.TargetDate
		t.TargetDate = &td
		t.Remaining = 0
		if rem := td.Sub(c.clock.Now()); rem > 0 {
			t.Remaining = rem
		}
	}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.updated", map[string]any{"id": id})
	return *t, nil
}

// StartTimer begins (or resumes) a timer's countdown. The absolute target is
// fixed at start; every later tick derives the remaining time from it.
func (c *Controller) StartTimer(id string) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return model.Timer{}, err
	}
	t := c.findTimer(id)
	if t == nil {
		return model.Timer{}, ErrNotFound
	}
	if t.IsRunning {
		return model.Timer{}, ErrInvalidState
	}
	now := c.clock.Now()
	var target time.Time
	switch t.Type {
	case model.TimerCountdown:
		if t.Remaining <= 0 {
			t.Remaining = t.InitialDuration
		}
		target = now.Add(t.Remaining)
	case model.TimerCountToDate:
		if t.TargetDate == nil {
			return model.Timer{}, ErrInvalidState
		}
		target = *t.TargetDate
		t.Remaining = 0
		if rem := target.Sub(now); rem > 0 {
			t.Remaining = rem
		}
	}
	t.TargetTime = &target
	t.IsRunning = true
	t.RangAt = nil
	c.tickTable[id] = struct{}{}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.started", map[string]any{"id": id})
	c.ensureTicking()
	return *t, nil
}

// PauseTimer freezes a running timer's remaining duration and cancels its
// pending tick.
func (c *Controller) PauseTimer(id string) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return model.Timer{}, err
	}
	t := c.findTimer(id)
	if t == nil {
		return model.Timer{}, ErrNotFound
	}
	if !t.IsRunning {
		return model.Timer{}, ErrInvalidState
	}
	now := c.clock.Now()
	remaining := time.Duration(0)
	if tgt := t.Target(); tgt != nil {
		if rem := tgt.Sub(now); rem > 0 {
			remaining = rem
		}
	}
	t.Remaining = remaining
	t.TargetTime = nil
	t.IsRunning = false
	delete(c.tickTable, id)
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.paused", map[string]any{"id": id})
	return *t, nil
}

// ResetTimer restores a stopped timer to its initial state, clearing any
// rang-at marker. Invalid on ringing timers.
func (c *Controller) ResetTimer(id string) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return model.Timer{}, err
	}
	t := c.findTimer(id)
	if t == nil {
		return model.Timer{}, ErrNotFound
	}
	if t.IsRinging {
		return model.Timer{}, ErrInvalidState
	}
	if t.IsRunning {
		t.IsRunning = false
		t.TargetTime = nil
		delete(c.tickTable, id)
	}
	if t.Type == model.TimerCountdown {
		t.Remaining = t.InitialDuration
	} else {
		t.Remaining = 0
		if t.TargetDate != nil {
			if rem := t.TargetDate.Sub(c.clock.Now()); rem > 0 {
				t.Remaining = rem
			}
		}
	}
	t.RangAt = nil
	t.FiredAt = nil
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.reset", map[string]any{"id": id})
	return *t, nil
}

// PinTimer makes one timer the primary-display timer, unpinning the rest.
func (c *Controller) PinTimer(id string) (model.Timer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return model.Timer{}, err
	}
	t := c.findTimer(id)
	if t == nil {
		return model.Timer{}, ErrNotFound
	}
	for _, other := range c.allTimers() {
		other.IsPinned = other.ID == id
	}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.pinned", map[string]any{"id": id})
	return *t, nil
}

// DeleteTimer removes a user timer, cancels its pending tick, and reassigns
// the pinned slot if the deleted timer held it. Builtin timers cannot be
// deleted, only reset.
func (c *Controller) DeleteTimer(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainTimer, id); err != nil {
		return err
	}
	t := c.findTimer(id)
	if t == nil {
		return ErrNotFound
	}
	if t.Kind == model.KindBuiltin {
		return ErrBuiltinImmutable
	}
	wasPinned := t.IsPinned
	delete(c.tickTable, id)
	for i, ut := range c.userTimers {
		if ut.ID == id {
			c.userTimers = append(c.userTimers[:i], c.userTimers[i+1:]...)
			break
		}
	}
	if wasPinned {
		if remaining := c.allTimers(); len(remaining) > 0 {
			remaining[0].IsPinned = true
		}
	}
	c.saveTimers()
	c.notifier.Notify(notification.KindInfo, "timer.deleted", map[string]any{"id": id})
	return nil
}
