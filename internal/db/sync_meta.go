package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncMeta stores pipeline bookkeeping as key/value pairs.
type SyncMeta struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:255"`
	UpdatedAt time.Time
}

// Well-known sync metadata keys.
const (
	SyncMetaLastDiscovery = "last_discovery_at"
	SyncMetaLastIndex     = "last_index_at"
	SyncMetaLastRescan    = "last_rescan_at"
	SyncMetaTrackingID    = "tracking_id"
)

// SetSyncMeta upserts one metadata value.
func (db *DB) SetSyncMeta(key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&SyncMeta{Key: key, Value: value}).Error
}

// GetOrCreateTrackingID returns the persistent anonymous telemetry ID,
// minting one on first use.
func (db *DB) GetOrCreateTrackingID() string {
	id, err := db.GetSyncMeta(SyncMetaTrackingID)
	if err == nil && id != "" {
		return id
	}
	id = uuid.New().String()
	_ = db.SetSyncMeta(SyncMetaTrackingID, id)
	return id
}

// GetSyncMeta reads one metadata value; empty string when unset.
func (db *DB) GetSyncMeta(key string) (string, error) {
	var meta SyncMeta
	err := db.First(&meta, "key = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}
