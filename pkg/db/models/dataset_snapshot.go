package models

import "time"

// DatasetSnapshot is the persisted cache envelope for one dataset family.
type DatasetSnapshot struct {
	CacheKey  string    `gorm:"column:cache_key;type:varchar(128);primaryKey"`
	Body      string    `gorm:"column:body;type:text;not null"`
	StoredAt  int64     `gorm:"column:stored_at;not null;index:idx_dataset_snapshots_stored_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DatasetSnapshot) TableName() string { return "dataset_snapshots" }
