package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/repository"
)

// UsageSummary aggregates public API traffic over a time range.
type UsageSummary struct {
	TotalRequests   int64   `json:"total_requests"`
	AvgResponseTime float64 `json:"avg_response_time_ms"`
	SuccessRate     float64 `json:"success_rate"`
	ClientErrorRate float64 `json:"client_error_rate"`
	ServerErrorRate float64 `json:"server_error_rate"`
}

// UsagePoint is one hour of a key's counter series.
type UsagePoint struct {
	Hour  time.Time `json:"hour"`
	Count int64     `json:"count"`
}

// KeyUsage is the per-key dashboard payload.
type KeyUsage struct {
	KeyID  uuid.UUID    `json:"key_id"`
	Total  int64        `json:"total"`
	Series []UsagePoint `json:"series"`
}

// AnalyticsService serves the developer-dashboard usage charts from request
// logs and the rate-limit usage counters.
type AnalyticsService struct {
	requestLogs *repository.RequestLogRepository
	usage       *repository.UsageRepository
	keys        *repository.APIKeyRepository
}

func NewAnalyticsService(requestLogs *repository.RequestLogRepository, usage *repository.UsageRepository, keys *repository.APIKeyRepository) *AnalyticsService {
	return &AnalyticsService{
		requestLogs: requestLogs,
		usage:       usage,
		keys:        keys,
	}
}

func (s *AnalyticsService) Summary(ctx context.Context, from, to time.Time) (*UsageSummary, error) {
	total, err := s.requestLogs.CountByTimeRange(ctx, from, to)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	summary := &UsageSummary{TotalRequests: total}
	if total == 0 {
		return summary, nil
	}

	avg, err := s.requestLogs.AvgResponseTime(ctx, from, to)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	summary.AvgResponseTime = avg

	success, err := s.requestLogs.CountByStatusClass(ctx, from, to, 200, 400)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	clientErr, err := s.requestLogs.CountByStatusClass(ctx, from, to, 400, 500)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	serverErr, err := s.requestLogs.CountByStatusClass(ctx, from, to, 500, 600)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	summary.SuccessRate = float64(success) / float64(total) * 100
	summary.ClientErrorRate = float64(clientErr) / float64(total) * 100
	summary.ServerErrorRate = float64(serverErr) / float64(total) * 100

	return summary, nil
}

// KeyUsage returns a key's hourly usage series for the dashboard chart.
func (s *AnalyticsService) KeyUsage(ctx context.Context, keyID uuid.UUID, from, to time.Time) (*KeyUsage, error) {
	apiKey, err := s.keys.FindByID(ctx, keyID)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if apiKey == nil {
		return nil, apperrors.NotFoundOrUnauthorized("API key")
	}

	counters, err := s.usage.SeriesByKey(ctx, keyID, from, to)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	usage := &KeyUsage{
		KeyID:  keyID,
		Series: make([]UsagePoint, len(counters)),
	}
	for i, c := range counters {
		usage.Series[i] = UsagePoint{Hour: c.HourBucket, Count: c.Count}
		usage.Total += c.Count
	}

	return usage, nil
}
