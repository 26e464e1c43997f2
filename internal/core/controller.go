// Package core implements the temporal scheduling engine: the entity store,
// the countdown driver, the per-domain ringing state machine, and the startup
// reconciliation of persisted state against elapsed wall-clock time.
package core

import (
	"fmt"
	"sync"
	"time"

	"timekeeper-backend/config"
	"timekeeper-backend/internal/clock"
	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
	"timekeeper-backend/internal/sound"
)

// Domain scopes the ringing-exclusivity invariant. A ringing alarm never
// blocks timer operations, and vice versa.
type Domain string

const (
	DomainAlarm Domain = "alarm"
	DomainTimer Domain = "timer"
)

// ringEntry is one member of a domain's ringing record. It back-references
// the entity by id only; the entity store stays authoritative.
type ringEntry struct {
	ID      string
	Sound   sound.Ref
	FiredAt time.Time
}

// Controller owns all scheduling state and is the single writer for it.
// Every public operation takes the controller mutex, so entity mutation is
// atomic from the collaborators' point of view.
type Controller struct {
	mu       sync.Mutex
	cfg      *config.Config
	clock    clock.Clock
	gw       gateway.Gateway
	sounds   *sound.Catalog
	player   sound.Player
	notifier notification.Notifier

	userAlarms    []*model.Alarm
	builtinAlarms []*model.Alarm
	userTimers    []*model.Timer
	builtinTimers []*model.Timer
	alarmSections []*model.Section
	timerSections []*model.Section

	ringing map[Domain]map[string]ringEntry

	// tickTable holds the ids of timers with a live countdown. Removing an
	// id is the synchronous cancellation of its pending tick; the driver
	// re-checks liveness against the store before acting on any entry.
	tickTable  map[string]struct{}
	tickHandle clock.Handle

	closed bool
}

// New creates a Controller with empty collections. Call Load and Recover
// before Start.
func New(cfg *config.Config, clk clock.Clock, gw gateway.Gateway, sounds *sound.Catalog, player sound.Player, notifier notification.Notifier) *Controller {
	return &Controller{
		cfg:      cfg,
		clock:    clk,
		gw:       gw,
		sounds:   sounds,
		player:   player,
		notifier: notifier,
		ringing: map[Domain]map[string]ringEntry{
			DomainAlarm: {},
			DomainTimer: {},
		},
		tickTable: make(map[string]struct{}),
	}
}

// Start begins the tick driver if there is anything to drive.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureTicking()
}

// Shutdown stops the driver and records the teardown instant for both
// domains, which the next process start reconciles against.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.tickHandle != 0 {
		c.clock.Cancel(c.tickHandle)
		c.tickHandle = 0
	}
	now := c.clock.Now()
	c.saveLastActive(gateway.KeyAlarmLastActive, now)
	c.saveLastActive(gateway.KeyTimerLastActive, now)
}

// --- lookups (callers hold c.mu) ---

func (c *Controller) allAlarms() []*model.Alarm {
	out := make([]*model.Alarm, 0, len(c.userAlarms)+len(c.builtinAlarms))
	out = append(out, c.userAlarms...)
	out = append(out, c.builtinAlarms...)
	return out
}

func (c *Controller) allTimers() []*model.Timer {
	out := make([]*model.Timer, 0, len(c.userTimers)+len(c.builtinTimers))
	out = append(out, c.userTimers...)
	out = append(out, c.builtinTimers...)
	return out
}

func (c *Controller) findAlarm(id string) *model.Alarm {
	for _, a := range c.allAlarms() {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (c *Controller) findTimer(id string) *model.Timer {
	for _, t := range c.allTimers() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// guardDomain enforces ringing exclusivity: while any entity in the domain
// rings, every mutating operation on the domain is rejected. Dismiss, snooze
// and restart bypass this guard by construction.
func (c *Controller) guardDomain(d Domain, id string) error {
	if len(c.ringing[d]) == 0 {
		return nil
	}
	c.notifier.Notify(notification.KindRejected, string(d)+".domain_ringing", map[string]any{"id": id})
	return ErrDomainRinging
}

// --- public accessors ---

// Alarms returns a copy of every alarm, user-created first.
func (c *Controller) Alarms() []model.Alarm {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.allAlarms()
	out := make([]model.Alarm, len(all))
	for i, a := range all {
		out[i] = *a
	}
	return out
}

// Timers returns a copy of every timer, user-created first.
func (c *Controller) Timers() []model.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.allTimers()
	out := make([]model.Timer, len(all))
	for i, t := range all {
		out[i] = *t
	}
	return out
}

// GetAlarm returns a copy of one alarm.
func (c *Controller) GetAlarm(id string) (model.Alarm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if a := c.findAlarm(id); a != nil {
		return *a, true
	}
	return model.Alarm{}, false
}

// GetTimer returns a copy of one timer.
func (c *Controller) GetTimer(id string) (model.Timer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.findTimer(id); t != nil {
		return *t, true
	}
	return model.Timer{}, false
}

// PinnedTimer returns the timer driving the primary display.
func (c *Controller) PinnedTimer() (model.Timer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.allTimers() {
		if t.IsPinned {
			return *t, true
		}
	}
	return model.Timer{}, false
}

// Counts returns the number of alarms and timers across both kinds.
func (c *Controller) Counts() (alarms, timers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.userAlarms) + len(c.builtinAlarms), len(c.userTimers) + len(c.builtinTimers)
}

// IsDomainRinging reports whether any entity in the domain is ringing.
func (c *Controller) IsDomainRinging(d Domain) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ringing[d]) > 0
}

// RingingView is the read model of one ringing entity.
type RingingView struct {
	ID      string    `json:"id"`
	Sound   sound.Ref `json:"sound"`
	FiredAt time.Time `json:"firedAt"`
}

// Ringing lists the domain's ringing entities, most recently fired first.
// The head of the list is the one presented as active; the rest remain
// individually dismissible.
func (c *Controller) Ringing(d Domain) []RingingView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RingingView, 0, len(c.ringing[d]))
	for _, e := range c.ringing[d] {
		out = append(out, RingingView{ID: e.ID, Sound: e.Sound, FiredAt: e.FiredAt})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].FiredAt.After(out[j-1].FiredAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// resolveSound resolves *id, substituting and writing back the fallback id
// when the reference is unresolvable. The caller persists the entity, which
// makes the substitution durable.
func (c *Controller) resolveSound(id *string) sound.Ref {
	ref, err := c.sounds.Resolve(*id)
	if err != nil {
		*id = c.sounds.FallbackID()
		return c.sounds.Fallback()
	}
	return ref
}

func instanceKey(d Domain, id string) string {
	return fmt.Sprintf("%s:%s", d, id)
}
