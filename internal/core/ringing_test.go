package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

// ringCountdown creates a countdown timer, starts it and advances the clock
// until it rings.
func ringCountdown(t *testing.T, env *testEnv, title string, d time.Duration) model.Timer {
	t.Helper()
	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    title,
		Type:     model.TimerCountdown,
		Duration: d,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)
	env.clock.Advance(d + time.Second)
	got, ok := env.ctrl.GetTimer(created.ID)
	require.True(t, ok)
	require.True(t, got.IsRinging)
	return got
}

// ringAlarmAt creates an alarm one minute ahead of the clock, enables it and
// advances until it rings.
func ringAlarmAt(t *testing.T, env *testEnv, title string) model.Alarm {
	t.Helper()
	next := env.clock.Now().Add(time.Minute)
	created, err := env.ctrl.CreateAlarm(CreateAlarmParams{
		Title:  title,
		Hour:   next.Hour(),
		Minute: next.Minute(),
	})
	require.NoError(t, err)
	_, err = env.ctrl.ToggleAlarm(created.ID)
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	got, ok := env.ctrl.GetAlarm(created.ID)
	require.True(t, ok)
	require.True(t, got.IsRinging)
	return got
}

func TestRingingTimerBlocksDomainMutations(t *testing.T) {
	env := newTestEnv(testTime())
	other, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Bystander",
		Type:     model.TimerCountdown,
		Duration: time.Hour,
	})
	require.NoError(t, err)

	ringing := ringCountdown(t, env, "Done", time.Minute)
	require.True(t, env.ctrl.IsDomainRinging(DomainTimer))

	_, err = env.ctrl.CreateTimer(CreateTimerParams{Title: "New", Type: model.TimerCountdown, Duration: time.Minute})
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.StartTimer(other.ID)
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.PauseTimer(other.ID)
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.ResetTimer(other.ID)
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.PinTimer(other.ID)
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.UpdateTimer(other.ID, UpdateTimerParams{})
	assert.ErrorIs(t, err, ErrDomainRinging)
	assert.ErrorIs(t, env.ctrl.DeleteTimer(other.ID), ErrDomainRinging)
	assert.NotEmpty(t, env.notifier.byKind(notification.KindRejected))

	// The other domain is unaffected.
	_, err = env.ctrl.CreateAlarm(CreateAlarmParams{Title: "Fine", Hour: 6, Minute: 0})
	assert.NoError(t, err)

	// Dismiss lifts the block.
	require.NoError(t, env.ctrl.DismissTimer(ringing.ID))
	assert.False(t, env.ctrl.IsDomainRinging(DomainTimer))
	_, err = env.ctrl.StartTimer(other.ID)
	assert.NoError(t, err)
}

func TestRingingAlarmBlocksAlarmMutationsOnly(t *testing.T) {
	env := newTestEnv(testTime())
	ringing := ringAlarmAt(t, env, "Wake")

	_, err := env.ctrl.CreateAlarm(CreateAlarmParams{Title: "New", Hour: 6, Minute: 0})
	assert.ErrorIs(t, err, ErrDomainRinging)
	_, err = env.ctrl.ToggleAlarm(ringing.ID)
	assert.ErrorIs(t, err, ErrDomainRinging)
	assert.ErrorIs(t, env.ctrl.DeleteAlarm(ringing.ID), ErrDomainRinging)

	_, err = env.ctrl.CreateTimer(CreateTimerParams{Title: "Fine", Type: model.TimerCountdown, Duration: time.Minute})
	assert.NoError(t, err)

	require.NoError(t, env.ctrl.DismissAlarm(ringing.ID))
	got, _ := env.ctrl.GetAlarm(ringing.ID)
	assert.False(t, got.IsRinging)
	assert.False(t, got.Enabled)
	assert.Nil(t, got.FiredAt)
	assert.Nil(t, got.RangAt)
	assert.Equal(t, 0, env.player.active())
}

func TestDismissRequiresRinging(t *testing.T) {
	env := newTestEnv(testTime())
	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Idle",
		Type:     model.TimerCountdown,
		Duration: time.Minute,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.ctrl.DismissTimer(created.ID), ErrNotRinging)
	assert.ErrorIs(t, env.ctrl.DismissTimer("nope"), ErrNotFound)
	assert.ErrorIs(t, env.ctrl.DismissAlarm("nope"), ErrNotFound)
	assert.ErrorIs(t, env.ctrl.RestartTimer(created.ID), ErrNotRinging)
	_, err = env.ctrl.SnoozeAlarm("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDismissedCountdownReturnsToInitialDuration(t *testing.T) {
	env := newTestEnv(testTime())
	ringing := ringCountdown(t, env, "Tea", 3*time.Minute)

	require.NoError(t, env.ctrl.DismissTimer(ringing.ID))
	got, _ := env.ctrl.GetTimer(ringing.ID)
	assert.Equal(t, 3*time.Minute, got.Remaining)
	assert.False(t, got.IsRunning)
	assert.Nil(t, got.FiredAt)

	// Ready to go again from scratch.
	_, err := env.ctrl.StartTimer(ringing.ID)
	require.NoError(t, err)
	env.clock.Advance(3*time.Minute + time.Second)
	got, _ = env.ctrl.GetTimer(ringing.ID)
	assert.True(t, got.IsRinging)
}

func TestRestartReArmsRingingCountdown(t *testing.T) {
	env := newTestEnv(testTime())
	ringing := ringCountdown(t, env, "Pomodoro", 2*time.Minute)

	require.NoError(t, env.ctrl.RestartTimer(ringing.ID))
	got, _ := env.ctrl.GetTimer(ringing.ID)
	assert.False(t, got.IsRinging)
	assert.True(t, got.IsRunning)
	assert.Equal(t, 2*time.Minute, got.Remaining)
	assert.Equal(t, 0, env.player.active())

	env.clock.Advance(2*time.Minute + time.Second)
	got, _ = env.ctrl.GetTimer(ringing.ID)
	assert.True(t, got.IsRinging)
}

func TestRestartRejectsCountToDateTimer(t *testing.T) {
	env := newTestEnv(testTime())
	deadline := testTime().Add(time.Minute)
	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:      "Deadline",
		Type:       model.TimerCountToDate,
		TargetDate: &deadline,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)
	env.clock.Advance(61 * time.Second)

	assert.ErrorIs(t, env.ctrl.RestartTimer(created.ID), ErrInvalidState)
	// The date has passed; the timer stays dismissible.
	require.NoError(t, env.ctrl.DismissTimer(created.ID))
}

func TestStackedRingsListMostRecentFirst(t *testing.T) {
	env := newTestEnv(testTime())
	first, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "First",
		Type:     model.TimerCountdown,
		Duration: time.Minute,
	})
	require.NoError(t, err)
	second, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Second",
		Type:     model.TimerCountdown,
		Duration: 2 * time.Minute,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(first.ID)
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(second.ID)
	require.NoError(t, err)

	env.clock.Advance(2*time.Minute + time.Second)

	ringing := env.ctrl.Ringing(DomainTimer)
	require.Len(t, ringing, 2)
	assert.Equal(t, second.ID, ringing[0].ID)
	assert.Equal(t, first.ID, ringing[1].ID)
	assert.Equal(t, 2, env.player.active())

	// Each entry is individually dismissible; dismissing the head leaves
	// the older ring in place.
	require.NoError(t, env.ctrl.DismissTimer(second.ID))
	ringing = env.ctrl.Ringing(DomainTimer)
	require.Len(t, ringing, 1)
	assert.Equal(t, first.ID, ringing[0].ID)
	assert.True(t, env.ctrl.IsDomainRinging(DomainTimer))
	assert.Equal(t, 1, env.player.active())
}

func TestSnoozeCreatesExactlyOneNewAlarm(t *testing.T) {
	env := newTestEnv(testTime())
	ringing := ringAlarmAt(t, env, "Wake")
	alarmsBefore, _ := env.ctrl.Counts()

	snoozed, err := env.ctrl.SnoozeAlarm(ringing.ID)
	require.NoError(t, err)

	alarmsAfter, _ := env.ctrl.Counts()
	assert.Equal(t, alarmsBefore+1, alarmsAfter)

	at := env.clock.Now().Add(env.cfg.Engine.SnoozeDuration)
	assert.Equal(t, at.Hour(), snoozed.Hour)
	assert.Equal(t, at.Minute(), snoozed.Minute)
	assert.Equal(t, ringing.ID, snoozed.SnoozedFrom)
	assert.Equal(t, ringing.Title, snoozed.Title)
	assert.True(t, snoozed.Enabled)
	assert.Equal(t, model.KindUser, snoozed.Kind)

	original, _ := env.ctrl.GetAlarm(ringing.ID)
	assert.False(t, original.IsRinging)
	assert.False(t, original.Enabled)
	assert.False(t, env.ctrl.IsDomainRinging(DomainAlarm))

	// The snoozed copy rings on its own schedule.
	env.clock.Advance(env.cfg.Engine.SnoozeDuration)
	got, _ := env.ctrl.GetAlarm(snoozed.ID)
	assert.True(t, got.IsRinging)
}

func TestSnoozeAtLimitStillDismisses(t *testing.T) {
	env := newTestEnv(testTime())
	env.cfg.Limits.MaxAlarms = 1
	ringing := ringAlarmAt(t, env, "Wake")
	alarmsBefore, _ := env.ctrl.Counts()

	_, err := env.ctrl.SnoozeAlarm(ringing.ID)
	assert.ErrorIs(t, err, ErrLimitExceeded)

	// The dismissal stands even though no copy was created.
	alarmsAfter, _ := env.ctrl.Counts()
	assert.Equal(t, alarmsBefore, alarmsAfter)
	original, _ := env.ctrl.GetAlarm(ringing.ID)
	assert.False(t, original.IsRinging)
	assert.False(t, original.Enabled)
	assert.False(t, env.ctrl.IsDomainRinging(DomainAlarm))
	assert.NotEmpty(t, env.notifier.byKind(notification.KindLimit))
}

func TestUnresolvableSoundFallsBackAndSticks(t *testing.T) {
	env := newTestEnv(testTime())
	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Odd",
		Type:     model.TimerCountdown,
		Sound:    "vuvuzela",
		Duration: time.Minute,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)

	env.clock.Advance(61 * time.Second)

	// The substitution is written back to the entity, not just played.
	got, _ := env.ctrl.GetTimer(created.ID)
	assert.Equal(t, env.cfg.Sound.FallbackID, got.Sound)
	ringing := env.ctrl.Ringing(DomainTimer)
	require.Len(t, ringing, 1)
	assert.Equal(t, env.cfg.Sound.FallbackID, ringing[0].Sound.ID)
}
