package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingNotifier struct{ calls int }

func (c *countingNotifier) Notify(Kind, string, map[string]any) { c.calls++ }

func TestMultiNotifierFansOut(t *testing.T) {
	a := &countingNotifier{}
	b := &countingNotifier{}
	m := MultiNotifier{a, b}

	m.Notify(KindRing, "timer.ringing", nil)
	m.Notify(KindInfo, "timer.created", nil)

	assert.Equal(t, 2, a.calls)
	assert.Equal(t, 2, b.calls)
}
