package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/model"
	"timekeeper-backend/internal/notification"
)

func TestCountdownDerivesRemainingFromTarget(t *testing.T) {
	env := newTestEnv(testTime())

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Deep work",
		Type:     model.TimerCountdown,
		Duration: 10 * time.Minute,
	})
	require.NoError(t, err)

	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)

	// Advance past three whole ticks plus half a tick of jitter. The
	// remaining value must reflect the last tick instant exactly, not a
	// count of decrements.
	env.clock.Advance(3500 * time.Millisecond)
	got, ok := env.ctrl.GetTimer(created.ID)
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute-3*time.Second, got.Remaining)

	// A long jump in one Advance behaves like many individual ticks.
	env.clock.Advance(5 * time.Minute)
	got, _ = env.ctrl.GetTimer(created.ID)
	assert.Equal(t, 10*time.Minute-5*time.Minute-3*time.Second, got.Remaining)
	assert.True(t, got.IsRunning)
	assert.False(t, got.IsRinging)
}

func TestCountdownCompletesAtTarget(t *testing.T) {
	env := newTestEnv(testTime())

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Eggs",
		Type:     model.TimerCountdown,
		Duration: 90 * time.Second,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)

	env.clock.Advance(91 * time.Second)

	got, _ := env.ctrl.GetTimer(created.ID)
	assert.True(t, got.IsRinging)
	assert.False(t, got.IsRunning)
	assert.Equal(t, time.Duration(0), got.Remaining)
	assert.Nil(t, got.TargetTime)
	require.NotNil(t, got.FiredAt)
	assert.Equal(t, testTime().Add(90*time.Second), *got.FiredAt)

	assert.Equal(t, 1, env.player.active())
	ringing := env.ctrl.Ringing(DomainTimer)
	require.Len(t, ringing, 1)
	assert.Equal(t, created.ID, ringing[0].ID)
	assert.Len(t, env.notifier.byKind(notification.KindRing), 1)
}

func TestPauseFreezesRemainingAndStopsTicking(t *testing.T) {
	env := newTestEnv(testTime())

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Workout",
		Type:     model.TimerCountdown,
		Duration: 10 * time.Minute,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)

	env.clock.Advance(90 * time.Second)
	paused, err := env.ctrl.PauseTimer(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute-90*time.Second, paused.Remaining)
	assert.False(t, paused.IsRunning)
	assert.Nil(t, paused.TargetTime)

	// No callback may fire for a paused timer, however far time moves.
	env.clock.Advance(time.Hour)
	got, _ := env.ctrl.GetTimer(created.ID)
	assert.False(t, got.IsRinging)
	assert.Equal(t, 10*time.Minute-90*time.Second, got.Remaining)
	assert.Equal(t, 0, env.clock.Pending())

	// Resuming fixes a fresh target from the frozen remaining.
	resumed, err := env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)
	require.NotNil(t, resumed.TargetTime)
	assert.Equal(t, env.clock.Now().Add(paused.Remaining), *resumed.TargetTime)

	env.clock.Advance(paused.Remaining + time.Second)
	got, _ = env.ctrl.GetTimer(created.ID)
	assert.True(t, got.IsRinging)
}

func TestCountToDateTimerFiresAtItsDate(t *testing.T) {
	env := newTestEnv(testTime())
	deadline := testTime().Add(2 * time.Minute)

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:      "Launch",
		Type:       model.TimerCountToDate,
		TargetDate: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, created.Remaining)

	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)

	env.clock.Advance(121 * time.Second)
	got, _ := env.ctrl.GetTimer(created.ID)
	assert.True(t, got.IsRinging)

	require.NoError(t, env.ctrl.DismissTimer(created.ID))
	got, _ = env.ctrl.GetTimer(created.ID)
	assert.False(t, got.IsRinging)
	assert.Equal(t, time.Duration(0), got.Remaining)
}

func TestAlarmFiresOnMinuteMatchOnce(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 59, 30, 0, time.UTC)
	env := newTestEnv(start)

	created, err := env.ctrl.CreateAlarm(CreateAlarmParams{
		Title: "Standup",
		Hour:  9, Minute: 0,
	})
	require.NoError(t, err)
	assert.False(t, created.Enabled)

	toggled, err := env.ctrl.ToggleAlarm(created.ID)
	require.NoError(t, err)
	require.True(t, toggled.Enabled)

	// Nothing before the minute matches.
	env.clock.Advance(29 * time.Second)
	got, _ := env.ctrl.GetAlarm(created.ID)
	assert.False(t, got.IsRinging)

	env.clock.Advance(time.Second)
	got, _ = env.ctrl.GetAlarm(created.ID)
	assert.True(t, got.IsRinging)
	require.NotNil(t, got.LastTriggered)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), *got.LastTriggered)

	// Ticks keep arriving through the rest of the matching minute without a
	// second fire.
	env.clock.Advance(50 * time.Second)
	assert.Len(t, env.notifier.byKind(notification.KindRing), 1)
	assert.Equal(t, 1, env.player.active())
}

func TestTickDriverStopsWhenIdle(t *testing.T) {
	env := newTestEnv(testTime())
	env.ctrl.Start()

	// No enabled alarms and no live countdowns: nothing to schedule.
	assert.Equal(t, 0, env.clock.Pending())

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Nap",
		Type:     model.TimerCountdown,
		Duration: time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.clock.Pending())

	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.clock.Pending())

	// Completion drains the table; the driver parks after ringing stops.
	env.clock.Advance(61 * time.Second)
	require.NoError(t, env.ctrl.DismissTimer(created.ID))
	env.clock.Advance(time.Hour)
	assert.Equal(t, 0, env.clock.Pending())
}

func TestShutdownCancelsPendingTick(t *testing.T) {
	env := newTestEnv(testTime())

	created, err := env.ctrl.CreateTimer(CreateTimerParams{
		Title:    "Nap",
		Type:     model.TimerCountdown,
		Duration: time.Minute,
	})
	require.NoError(t, err)
	_, err = env.ctrl.StartTimer(created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, env.clock.Pending())

	env.ctrl.Shutdown()
	assert.Equal(t, 0, env.clock.Pending())

	// Shutdown stamps both teardown instants for the next recovery pass.
	_, ok, err := env.gw.Load(gateway.KeyAlarmLastActive)
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = env.gw.Load(gateway.KeyTimerLastActive)
	require.NoError(t, err)
	assert.True(t, ok)
}
