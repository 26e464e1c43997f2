package model

import "time"

// TimerType distinguishes a fixed-duration countdown from a timer counting
// toward an absolute calendar date.
type TimerType string

const (
	TimerCountdown   TimerType = "countdown"
	TimerCountToDate TimerType = "count_to_date"
)

// Timer represents a countdown or count-to-date timer.
//
// TargetTime is present only while the timer is running; Remaining is
// recomputed from it on every tick rather than decremented, so the displayed
// value always agrees with the wall clock regardless of tick jitter.
// At most one timer across the user and builtin collections is pinned; the
// pinned timer drives the primary display.
type Timer struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      TimerType `json:"type"`
	Sound     string    `json:"sound"`
	Kind      Kind      `json:"kind"`
	SectionID string    `json:"sectionId,omitempty"`
	Created   time.Time `json:"created"`

	InitialDuration time.Duration `json:"initialDuration"`
	Remaining       time.Duration `json:"remaining"`
	TargetTime      *time.Time    `json:"targetTime,omitempty"`
	TargetDate      *time.Time    `json:"targetDate,omitempty"`

	IsRunning bool       `json:"isRunning"`
	IsRinging bool       `json:"isRinging"`
	IsPinned  bool       `json:"isPinned"`
	RangAt    *time.Time `json:"rangAt,omitempty"`
	FiredAt   *time.Time `json:"firedAt,omitempty"`
}

// EntityID returns the timer's stable identifier.
func (t *Timer) EntityID() string { return t.ID }

// Ringing reports whether the timer is currently demanding attention.
func (t *Timer) Ringing() bool { return t.IsRinging }

// Target returns the absolute completion instant the timer is driving
// toward, or nil when it has none.
func (t *Timer) Target() *time.Time {
	if t.TargetTime != nil {
		return t.TargetTime
	}
	if t.Type == TimerCountToDate {
		return t.TargetDate
	}
	return nil
}
