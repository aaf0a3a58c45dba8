package repository

import (
	"context"
	"time"

	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

type RequestLogRepository struct {
	db *storage.Postgres
}

func NewRequestLogRepository(db *storage.Postgres) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

func (r *RequestLogRepository) CreateBatch(ctx context.Context, logs []models.RequestLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.DB.WithContext(ctx).Create(&logs).Error
}

func (r *RequestLogRepository) CountByTimeRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.RequestLog{}).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Count(&count).Error

	return count, err
}

func (r *RequestLogRepository) AvgResponseTime(ctx context.Context, from, to time.Time) (float64, error) {
	var avg float64
	err := r.db.DB.WithContext(ctx).
		Model(&models.RequestLog{}).
		Select("COALESCE(AVG(response_time_ms), 0)").
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Scan(&avg).Error

	return avg, err
}

func (r *RequestLogRepository) CountByStatusClass(ctx context.Context, from, to time.Time, minStatus, maxStatus int) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.RequestLog{}).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Where("status_code >= ? AND status_code < ?", minStatus, maxStatus).
		Count(&count).Error

	return count, err
}
