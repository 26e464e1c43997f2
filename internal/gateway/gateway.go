// Package gateway persists opaque JSON snapshots per logical key. The core
// treats values as serialized collections; it never assumes transactional
// guarantees across keys.
package gateway

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timekeeper-backend/internal/model"
)

// Snapshot keys used by the core. One last-active key per domain so a crash
// between writes degrades recovery for one domain only.
const (
	KeyUserAlarms      = "alarms:user"
	KeyBuiltinAlarms   = "alarms:builtin"
	KeyAlarmSections   = "alarms:sections"
	KeyAlarmLastActive = "alarms:last_active"
	KeyUserTimers      = "timers:user"
	KeyBuiltinTimers   = "timers:builtin"
	KeyTimerSections   = "timers:sections"
	KeyTimerLastActive = "timers:last_active"
)

// Gateway defines the load/save contract consumed by the core.
type Gateway interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
}

// gormGateway implements Gateway over the snapshots table.
type gormGateway struct {
	db *gorm.DB
}

// NewGormGateway creates a GORM-backed gateway.
func NewGormGateway(db *gorm.DB) Gateway {
	return &gormGateway{db: db}
}

// Load fetches the snapshot for key. The second return value reports whether
// a snapshot exists.
func (g *gormGateway) Load(key string) ([]byte, bool, error) {
	var snap model.Snapshot
	err := g.db.First(&snap, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load snapshot %q: %w", key, err)
	}
	return snap.Value, true, nil
}

// Save upserts the snapshot for key.
func (g *gormGateway) Save(key string, value []byte) error {
	snap := model.Snapshot{Key: key, Value: value}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}
