package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

// UsageRepository owns the hourly usage counters. The only write path is
// Increment, which must stay a single statement: concurrent requests at the
// limit boundary rely on the database serializing the upsert.
type UsageRepository struct {
	db *storage.Postgres
}

func NewUsageRepository(db *storage.Postgres) *UsageRepository {
	return &UsageRepository{db: db}
}

// Increment bumps the counter for (keyID, bucket) and returns the
// post-increment count. Insert and increment happen in one atomic upsert;
// there is no read-then-write window.
func (r *UsageRepository) Increment(ctx context.Context, keyID uuid.UUID, bucket time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).Raw(`
		INSERT INTO usage_counters (key_id, hour_bucket, count)
		VALUES (?, ?, 1)
		ON CONFLICT (key_id, hour_bucket)
		DO UPDATE SET count = usage_counters.count + 1
		RETURNING count`,
		keyID, bucket,
	).Scan(&count).Error

	return count, err
}

// SeriesByKey returns a key's hourly counters in a time range, oldest first.
func (r *UsageRepository) SeriesByKey(ctx context.Context, keyID uuid.UUID, from, to time.Time) ([]models.UsageCounter, error) {
	var counters []models.UsageCounter
	err := r.db.DB.WithContext(ctx).
		Where("key_id = ? AND hour_bucket >= ? AND hour_bucket < ?", keyID, from, to).
		Order("hour_bucket ASC").
		Find(&counters).Error

	return counters, err
}

// TotalByKey sums a key's usage over a time range.
func (r *UsageRepository) TotalByKey(ctx context.Context, keyID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.UsageCounter{}).
		Select("COALESCE(SUM(count), 0)").
		Where("key_id = ? AND hour_bucket >= ? AND hour_bucket < ?", keyID, from, to).
		Scan(&total).Error

	return total, err
}
