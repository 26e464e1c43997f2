package core

import (
	"github.com/google/uuid"

	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// CreateAlarmParams are the caller-supplied fields of a new alarm.
type CreateAlarmParams struct {
	Title     string `json:"title"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Sound     string `json:"sound"`
	SectionID string `json:"sectionId"`
}

// UpdateAlarmParams carries optional field updates; nil means unchanged.
type UpdateAlarmParams struct {
	Title     *string `json:"title"`
	Hour      *int    `json:"hour"`
	Minute    *int    `json:"minute"`
	Sound     *string `json:"sound"`
	SectionID *string `json:"sectionId"`
}

// CreateAlarm adds a user alarm. New alarms start disabled; enabling is an
// explicit toggle.
func (c *Controller) CreateAlarm(p CreateAlarmParams) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainAlarm, ""); err != nil {
		return model.Alarm{}, err
	}
	if p.Hour < 0 || p.Hour > 23 || p.Minute < 0 || p.Minute > 59 {
		return model.Alarm{}, ErrInvalidInput
	}
	if len(c.userAlarms)+len(c.builtinAlarms) >= c.cfg.Limits.MaxAlarms {
		c.notifier.Notify(notification.KindLimit, "alarm.limit_reached", nil)
		return model.Alarm{}, ErrLimitExceeded
	}
	if p.Sound == "" {
		p.Sound = c.sounds.FallbackID()
	}
	a := &model.Alarm{
		ID:        uuid.NewString(),
		Title:     p.Title,
		Hour:      p.Hour,
		Minute:    p.Minute,
		Sound:     p.Sound,
		Kind:      model.KindUser,
		SectionID: p.SectionID,
		Created:   c.clock.Now(),
	}
	c.userAlarms = append(c.userAlarms, a)
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.created", map[string]any{"id": a.ID})
	return *a, nil
}

// UpdateAlarm applies the non-nil fields of p to an alarm. Changing the
// trigger time clears the retrigger guard so the new time can fire today.
func (c *Controller) UpdateAlarm(id string, p UpdateAlarmParams) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainAlarm, id); err != nil {
		return model.Alarm{}, err
	}
	a := c.findAlarm(id)
	if a == nil {
		return model.Alarm{}, ErrNotFound
	}
	if p.Hour != nil && (*p.Hour < 0 || *p.Hour > 23) {
		return model.Alarm{}, ErrInvalidInput
	}
	if p.Minute != nil && (*p.Minute < 0 || *p.Minute > 59) {
		return model.Alarm{}, ErrInvalidInput
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Sound != nil {
		a.Sound = *p.Sound
	}
	if p.SectionID != nil {
		a.SectionID = *p.SectionID
	}
	if p.Hour != nil || p.Minute != nil {
		if p.Hour != nil {
			a.Hour = *p.Hour
		}
		if p.Minute != nil {
			a.Minute = *p.Minute
		}
		a.LastTriggered = nil
	}
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.updated", map[string]any{"id": id})
	return *a, nil
}

// ToggleAlarm flips an alarm's enabled flag. Enabling clears the rang-at
// marker: the two are mutually exclusive.
func (c *Controller) ToggleAlarm(id string) (model.Alarm, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainAlarm, id); err != nil {
		return model.Alarm{}, err
	}
	a := c.findAlarm(id)
	if a == nil {
		return model.Alarm{}, ErrNotFound
	}
	a.Enabled = !a.Enabled
	if a.Enabled {
		a.RangAt = nil
		a.LastTriggered = nil
	}
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.toggled", map[string]any{
		"id":      id,
		"enabled": a.Enabled,
	})
	c.ensureTicking()
	return *a, nil
}

// DeleteAlarm removes a user alarm. Builtin alarms cannot be deleted.
func (c *Controller) DeleteAlarm(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(DomainAlarm, id); err != nil {
		return err
	}
	a := c.findAlarm(id)
	if a == nil {
		return ErrNotFound
	}
	if a.Kind == model.KindBuiltin {
		return ErrBuiltinImmutable
	}
	for i, ua := range c.userAlarms {
		if ua.ID == id {
			c.userAlarms = append(c.userAlarms[:i], c.userAlarms[i+1:]...)
			break
		}
	}
	c.saveAlarms()
	c.notifier.Notify(notification.KindInfo, "alarm.deleted", map[string]any{"id": id})
	return nil
}
