package core

import (
	"time"

	"timekeeper-backend/internal/model"
)

// Builtin entity templates. Seeded disabled/stopped; ids are stable so the
// id-merge in seedBuiltins stays idempotent across restarts and upgrades.

func builtinAlarmTemplates() []*model.Alarm {
	return []*model.Alarm{
		{
			ID:    "builtin-morning",
			Title: "Morning alarm",
			Hour:  7, Minute: 0,
			Sound: "classic-bell",
			Kind:  model.KindBuiltin,
		},
		{
			ID:    "builtin-lunch",
			Title: "Lunch break",
			Hour:  12, Minute: 30,
			Sound: "soft-chime",
			Kind:  model.KindBuiltin,
		},
	}
}

func builtinTimerTemplates() []*model.Timer {
	return []*model.Timer{
		{
			ID:              "builtin-pomodoro",
			Title:           "Pomodoro",
			Type:            model.TimerCountdown,
			Sound:           "digital-beep",
			Kind:            model.KindBuiltin,
			InitialDuration: 25 * time.Minute,
			Remaining:       25 * time.Minute,
		},
		{
			ID:              "builtin-tea",
			Title:           "Tea",
			Type:            model.TimerCountdown,
			Sound:           "soft-chime",
			Kind:            model.KindBuiltin,
			InitialDuration: 3 * time.Minute,
			Remaining:       3 * time.Minute,
		},
		{
			ID:              "builtin-egg",
			Title:           "Boiled egg",
			Type:            model.TimerCountdown,
			Sound:           "classic-bell",
			Kind:            model.KindBuiltin,
			InitialDuration: 10 * time.Minute,
			Remaining:       10 * time.Minute,
		},
	}
}
