package model

import "time"

// Kind distinguishes user-created entities from the seeded defaults.
type Kind string

const (
	KindUser    Kind = "user"
	KindBuiltin Kind = "builtin"
)

// Alarm represents a daily wall-clock alarm.
//
// RangAt and Enabled are mutually exclusive: an alarm that fired while the
// process was away carries a rang-at marker until the user re-enables it,
// and enabling clears the marker. IsRinging and RangAt are likewise mutually
// exclusive; a ringing alarm carries FiredAt instead, so a later recovery
// pass knows exactly when it went off.
type Alarm struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Hour        int       `json:"hour"`
	Minute      int       `json:"minute"`
	Sound       string    `json:"sound"`
	Enabled     bool      `json:"enabled"`
	Kind        Kind      `json:"kind"`
	SectionID   string    `json:"sectionId,omitempty"`
	Created     time.Time `json:"created"`
	SnoozedFrom string    `json:"snoozedFrom,omitempty"`

	IsRinging     bool       `json:"isRinging"`
	LastTriggered *time.Time `json:"lastTriggered,omitempty"`
	RangAt        *time.Time `json:"rangAt,omitempty"`
	FiredAt       *time.Time `json:"firedAt,omitempty"`
}

// EntityID returns the alarm's stable identifier.
func (a *Alarm) EntityID() string { return a.ID }

// Ringing reports whether the alarm is currently demanding attention.
func (a *Alarm) Ringing() bool { return a.IsRinging }

// NextTrigger returns the alarm's trigger instant at or after the given time.
func (a *Alarm) NextTrigger(after time.Time) time.Time {
	t := time.Date(after.Year(), after.Month(), after.Day(), a.Hour, a.Minute, 0, 0, after.Location())
	if t.Before(after) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// LastOccurrence returns the most recent instant at or before now on which
// the alarm's hour:minute came around.
func (a *Alarm) LastOccurrence(now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, 0, 0, now.Location())
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}
