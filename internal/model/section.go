package model

// Section is a named grouping of alarms or timers within one domain.
type Section struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
