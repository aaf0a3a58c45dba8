package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageCounter is one row per key per wall-clock hour. Count only ever
// increments, and always through a single atomic upsert (see
// repository.UsageRepository.Increment).
type UsageCounter struct {
	KeyID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"key_id"`
	HourBucket time.Time `gorm:"primaryKey" json:"hour_bucket"`
	Count      int64     `gorm:"not null;default:0" json:"count"`
}

func (UsageCounter) TableName() string {
	return "usage_counters"
}

// HourBucketFor truncates t to the start of its hour in UTC.
func HourBucketFor(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}
