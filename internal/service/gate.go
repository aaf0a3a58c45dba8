package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
	"github.com/rs/zerolog"
)

// fallback when a key references a tier that no longer exists
const defaultHourlyLimit = 100

// KeyStore is the credential lookup the gate needs.
type KeyStore interface {
	FindByHash(ctx context.Context, hash string) (*models.APIKey, error)
	FindTier(ctx context.Context, tierID string) (*models.APITier, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}

// UsageCounterStore is the single atomic operation the rate limiter rests
// on: increment and return the post-increment count.
type UsageCounterStore interface {
	Increment(ctx context.Context, keyID uuid.UUID, bucket time.Time) (int64, error)
}

// GateResult is returned on admit, for observability headers.
type GateResult struct {
	KeyID     uuid.UUID
	PartnerID uuid.UUID
	TierID    string
	Usage     int64
	Limit     int64
}

// GateService authenticates API credentials and enforces per-tier hourly
// rate limits. Every failure mode rejects; the gate never fails open.
type GateService struct {
	keys   KeyStore
	usage  UsageCounterStore
	redis  *storage.RedisClient
	logger zerolog.Logger
	now    func() time.Time
}

func NewGateService(keys KeyStore, usage UsageCounterStore, redis *storage.RedisClient, logger zerolog.Logger) *GateService {
	return &GateService{
		keys:   keys,
		usage:  usage,
		redis:  redis,
		logger: logger,
		now:    time.Now,
	}
}

// HashKey computes the fixed credential digest: SHA-256, hex encoded.
// Lookups only ever use the digest; raw secrets are never stored.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// Authenticate runs the full gate: credential digest lookup, revocation and
// partner status checks, then the atomic usage increment compared against
// the tier limit.
func (s *GateService) Authenticate(ctx context.Context, credential string) (*GateResult, error) {
	if credential == "" {
		return nil, apperrors.Unauthenticated("missing API key")
	}

	apiKey, err := s.lookupKey(ctx, HashKey(credential))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if apiKey == nil {
		return nil, apperrors.InvalidCredential()
	}

	if apiKey.IsRevoked {
		s.logger.Debug().Str("key_id", apiKey.ID.String()).Msg("revoked key presented")
		return nil, apperrors.InvalidCredential()
	}

	if apiKey.Partner == nil || apiKey.Partner.Status != models.PartnerStatusActive {
		return nil, apperrors.Forbidden("account pending approval")
	}

	limit := int64(defaultHourlyLimit)
	tier, err := s.keys.FindTier(ctx, apiKey.TierID)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if tier != nil {
		limit = int64(tier.RequestsPerHour)
	}

	bucket := models.HourBucketFor(s.now())
	count, err := s.usage.Increment(ctx, apiKey.ID, bucket)
	if err != nil {
		// Fail closed: an unavailable counter rejects the request.
		s.logger.Error().Err(err).Str("key_id", apiKey.ID.String()).Msg("usage increment failed")
		return nil, apperrors.Upstream(err)
	}

	if count > limit {
		return nil, apperrors.RateLimited(count, limit)
	}

	go func(id uuid.UUID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.keys.UpdateLastUsed(ctx, id); err != nil {
			s.logger.Warn().Err(err).Msg("failed to update key last_used_at")
		}
	}(apiKey.ID)

	return &GateResult{
		KeyID:     apiKey.ID,
		PartnerID: apiKey.PartnerID,
		TierID:    apiKey.TierID,
		Usage:     count,
		Limit:     limit,
	}, nil
}

// lookupKey checks the redis cache before hitting the database. Cache
// entries carry the preloaded partner so status checks stay cheap.
func (s *GateService) lookupKey(ctx context.Context, hash string) (*models.APIKey, error) {
	cacheKey := fmt.Sprintf("apikey:cache:%s", hash)

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			var apiKey models.APIKey
			if err := json.Unmarshal([]byte(cached), &apiKey); err == nil {
				return &apiKey, nil
			}
		}
	}

	apiKey, err := s.keys.FindByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if apiKey == nil {
		return nil, nil
	}

	if s.redis != nil {
		if payload, err := json.Marshal(apiKey); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, 5*time.Minute); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache api key")
			}
		}
	}

	return apiKey, nil
}

// InvalidateKeyCache drops a cached key after revocation or tier change.
func (s *GateService) InvalidateKeyCache(ctx context.Context, keyHash string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, fmt.Sprintf("apikey:cache:%s", keyHash)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate api key cache")
	}
}
