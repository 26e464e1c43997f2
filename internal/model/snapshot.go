package model

import "time"

// Snapshot is the persistence gateway's storage row: one opaque JSON value
// per logical key. The core never assumes transactional guarantees across
// keys; recovery tolerates any partially written combination.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
