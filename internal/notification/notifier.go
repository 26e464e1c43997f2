// Package notification carries user-visible events out of the core: rings,
// missed-while-away markers, rejected operations, and CRUD confirmations.
package notification

import "log"

// Kind classifies a notification event.
type Kind string

const (
	KindRing     Kind = "ring"
	KindMissed   Kind = "missed"
	KindRejected Kind = "rejected"
	KindLimit    Kind = "limit"
	KindInfo     Kind = "info"
)

// Event is one user-visible notification. MessageKey is a translation key;
// Data carries the interpolation values.
type Event struct {
	Kind       Kind           `json:"kind"`
	MessageKey string         `json:"messageKey"`
	Data       map[string]any `json:"data,omitempty"`
}

// Notifier is the collaborator interface consumed by the core. Implementations
// must not block the caller.
type Notifier interface {
	Notify(kind Kind, messageKey string, data map[string]any)
}

// LogNotifier writes events to the process log. Used when push is not
// configured and as the test default.
type LogNotifier struct{}

// Notify logs the event.
func (LogNotifier) Notify(kind Kind, messageKey string, data map[string]any) {
	log.Printf("notify [%s] %s %v", kind, messageKey, data)
}

// MultiNotifier fans one event out to several notifiers.
type MultiNotifier []Notifier

// Notify forwards the event to every wrapped notifier.
func (m MultiNotifier) Notify(kind Kind, messageKey string, data map[string]any) {
	for _, n := range m {
		n.Notify(kind, messageKey, data)
	}
}
