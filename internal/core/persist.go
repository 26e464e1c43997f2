package core

import (
	"encoding/json"
	"log"
	"time"

	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/model"
)

// Snapshot envelopes. Field names are part of the persisted format.
type alarmsSnapshot struct {
	Entities []*model.Alarm `json:"entities"`
}

type timersSnapshot struct {
	Entities []*model.Timer `json:"entities"`
}

type sectionsSnapshot struct {
	Sections []*model.Section `json:"sections"`
}

type lastActiveSnapshot struct {
	LastActive time.Time `json:"lastActive"`
}

// Load populates the collections from the gateway. A missing or malformed
// snapshot yields an empty collection; loading never fails the startup.
func (c *Controller) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAlarms = c.loadAlarms(gateway.KeyUserAlarms)
	c.builtinAlarms = c.loadAlarms(gateway.KeyBuiltinAlarms)
	c.userTimers = c.loadTimers(gateway.KeyUserTimers)
	c.builtinTimers = c.loadTimers(gateway.KeyBuiltinTimers)
	c.alarmSections = c.loadSections(gateway.KeyAlarmSections)
	c.timerSections = c.loadSections(gateway.KeyTimerSections)
}

func (c *Controller) loadAlarms(key string) []*model.Alarm {
	raw, ok := c.loadRaw(key)
	if !ok {
		return nil
	}
	var snap alarmsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("malformed snapshot %q, starting empty: %v", key, err)
		return nil
	}
	return snap.Entities
}

func (c *Controller) loadTimers(key string) []*model.Timer {
	raw, ok := c.loadRaw(key)
	if !ok {
		return nil
	}
	var snap timersSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("malformed snapshot %q, starting empty: %v", key, err)
		return nil
	}
	return snap.Entities
}

func (c *Controller) loadSections(key string) []*model.Section {
	raw, ok := c.loadRaw(key)
	if !ok {
		return nil
	}
	var snap sectionsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("malformed snapshot %q, starting empty: %v", key, err)
		return nil
	}
	return snap.Sections
}

func (c *Controller) loadLastActive(key string) (time.Time, bool) {
	raw, ok := c.loadRaw(key)
	if !ok {
		return time.Time{}, false
	}
	var snap lastActiveSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil || snap.LastActive.IsZero() {
		log.Printf("malformed snapshot %q, ignoring: %v", key, err)
		return time.Time{}, false
	}
	return snap.LastActive, true
}

func (c *Controller) loadRaw(key string) ([]byte, bool) {
	raw, ok, err := c.gw.Load(key)
	if err != nil {
		log.Printf("failed to load snapshot %q, starting empty: %v", key, err)
		return nil, false
	}
	return raw, ok
}

// Save helpers. Persistence failures are logged, never propagated: the
// in-memory state stays authoritative for the rest of the session.

func (c *Controller) saveAlarms() {
	c.saveJSON(gateway.KeyUserAlarms, alarmsSnapshot{Entities: c.userAlarms})
	c.saveJSON(gateway.KeyBuiltinAlarms, alarmsSnapshot{Entities: c.builtinAlarms})
}

func (c *Controller) saveTimers() {
	c.saveJSON(gateway.KeyUserTimers, timersSnapshot{Entities: c.userTimers})
	c.saveJSON(gateway.KeyBuiltinTimers, timersSnapshot{Entities: c.builtinTimers})
}

func (c *Controller) saveAlarmSections() {
	c.saveJSON(gateway.KeyAlarmSections, sectionsSnapshot{Sections: c.alarmSections})
}

func (c *Controller) saveTimerSections() {
	c.saveJSON(gateway.KeyTimerSections, sectionsSnapshot{Sections: c.timerSections})
}

func (c *Controller) saveLastActive(key string, now time.Time) {
	c.saveJSON(key, lastActiveSnapshot{LastActive: now})
}

func (c *Controller) saveJSON(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal snapshot %q: %v", key, err)
		return
	}
	if err := c.gw.Save(key, raw); err != nil {
		log.Printf("failed to save snapshot %q: %v", key, err)
	}
}
