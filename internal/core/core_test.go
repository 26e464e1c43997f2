package core

import (
	"sync"
	"time"

	"timekeeper-backend/config"
	"timekeeper-backend/internal/clock"
	"timekeeper-backend/internal/gateway"
	"timekeeper-backend/internal/notification"
	"timekeeper-backend/internal/sound"
)

// recordingNotifier captures events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Notify(kind notification.Kind, messageKey string, data map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification.Event{Kind: kind, MessageKey: messageKey, Data: data})
}

func (n *recordingNotifier) byKind(kind notification.Kind) []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification.Event
	for _, e := range n.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// recordingPlayer tracks which sound instances are sounding.
type recordingPlayer struct {
	mu      sync.Mutex
	playing map[string]sound.Ref
}

func newRecordingPlayer() *recordingPlayer {
	return &recordingPlayer{playing: make(map[string]sound.Ref)}
}

func (p *recordingPlayer) Play(ref sound.Ref, instanceKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing[instanceKey] = ref
}

func (p *recordingPlayer) Stop(instanceKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.playing, instanceKey)
}

func (p *recordingPlayer) active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.playing)
}

type testEnv struct {
	ctrl     *Controller
	clock    *clock.ManualClock
	gw       *gateway.MemoryGateway
	notifier *recordingNotifier
	player   *recordingPlayer
	cfg      *config.Config
}

// newTestEnv builds a controller on a manual clock and an in-memory gateway.
// The returned controller has not been loaded or recovered; tests that need
// seeded builtins call Load and Recover themselves.
func newTestEnv(start time.Time) *testEnv {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	clk := clock.NewManualClock(start)
	gw := gateway.NewMemoryGateway()
	notifier := &recordingNotifier{}
	player := newRecordingPlayer()
	catalog := sound.NewCatalog(cfg.Sound.FallbackID)
	ctrl := New(cfg, clk, gw, catalog, player, notifier)
	return &testEnv{ctrl: ctrl, clock: clk, gw: gw, notifier: notifier, player: player, cfg: cfg}
}

// testTime is an arbitrary fixed starting instant.
func testTime() time.Time {
	return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
}
