package core

import (
	"strings"

	"github.com/google/uuid"

	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// sectionsFor returns the domain's section slice and its save function.
// Callers hold c.mu.
func (c *Controller) sectionsFor(d Domain) (*[]*model.Section, func()) {
	if d == DomainAlarm {
		return &c.alarmSections, c.saveAlarmSections
	}
	return &c.timerSections, c.saveTimerSections
}

// Sections returns a copy of the domain's sections.
func (c *Controller) Sections(d Domain) []model.Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, _ := c.sectionsFor(d)
	out := make([]model.Section, len(*list))
	for i, s := range *list {
		out[i] = *s
	}
	return out
}

// CreateSection adds a named grouping to the domain.
func (c *Controller) CreateSection(d Domain, name string) (model.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Section{}, ErrInvalidInput
	}
	list, save := c.sectionsFor(d)
	if len(*list) >= c.cfg.Limits.MaxSections {
		c.notifier.Notify(notification.KindLimit, string(d)+".section_limit_reached", nil)
		return model.Section{}, ErrLimitExceeded
	}
	s := &model.Section{ID: uuid.NewString(), Name: name}
	*list = append(*list, s)
	save()
	c.notifier.Notify(notification.KindInfo, string(d)+".section_created", map[string]any{"id": s.ID})
	return *s, nil
}

// RenameSection changes a section's display name.
func (c *Controller) RenameSection(d Domain, id, name string) (model.Section, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Section{}, ErrInvalidInput
	}
	list, save := c.sectionsFor(d)
	for _, s := range *list {
		if s.ID == id {
			s.Name = name
			save()
			c.notifier.Notify(notification.KindInfo, string(d)+".section_renamed", map[string]any{"id": id})
			return *s, nil
		}
	}
	return model.Section{}, ErrNotFound
}

// DeleteSection removes a grouping and detaches its entities. Rejected while
// the domain rings, because it mutates entities.
func (c *Controller) DeleteSection(d Domain, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(d, ""); err != nil {
		return err
	}
	list, save := c.sectionsFor(d)
	idx := -1
	for i, s := range *list {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	save()
	if d == DomainAlarm {
		for _, a := range c.allAlarms() {
			if a.SectionID == id {
				a.SectionID = ""
			}
		}
		c.saveAlarms()
	} else {
		for _, t := range c.allTimers() {
			if t.SectionID == id {
				t.SectionID = ""
			}
		}
		c.saveTimers()
	}
	c.notifier.Notify(notification.KindInfo, string(d)+".section_deleted", map[string]any{"id": id})
	return nil
}

// AssignSection moves an entity into a section (or out of all sections with
// an empty section id).
func (c *Controller) AssignSection(d Domain, entityID, sectionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.guardDomain(d, entityID); err != nil {
		return err
	}
	if sectionID != "" {
		list, _ := c.sectionsFor(d)
		found := false
		for _, s := range *list {
			if s.ID == sectionID {
				found = true
				break
			}
		}
		if !found {
			return ErrNotFound
		}
	}
	switch d {
	case DomainAlarm:
		a := c.findAlarm(entityID)
		if a == nil {
			return ErrNotFound
		}
		a.SectionID = sectionID
		c.saveAlarms()
	case DomainTimer:
		t := c.findTimer(entityID)
		if t == nil {
			return ErrNotFound
		}
		t.SectionID = sectionID
		c.saveTimers()
	}
	c.notifier.Notify(notification.KindInfo, string(d)+".section_assigned", map[string]any{
		"entity":  entityID,
		"section": sectionID,
	})
	return nil
}
