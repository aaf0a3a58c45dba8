package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

type APIKeyRepository struct {
	db *storage.Postgres
}

func NewAPIKeyRepository(db *storage.Postgres) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) error {
	return r.db.DB.WithContext(ctx).Create(apiKey).Error
}

// FindByHash looks a key up by credential digest with its partner loaded.
// Revoked keys are returned; the gate distinguishes revoked from unknown
// internally without leaking the difference to callers.
func (r *APIKeyRepository) FindByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.DB.WithContext(ctx).
		Preload("Partner").
		Where("key_hash = ?", hash).
		First(&apiKey).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &apiKey, err
}

func (r *APIKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.APIKey, error) {
	var apiKey models.APIKey
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&apiKey).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &apiKey, err
}

func (r *APIKeyRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := r.db.DB.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&keys).Error

	return keys, err
}

// Revoke sets is_revoked once; revoked keys are never un-revoked.
func (r *APIKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("is_revoked", true).Error
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now()).Error
}

// FindTier resolves a tier id to its hourly limit.
func (r *APIKeyRepository) FindTier(ctx context.Context, tierID string) (*models.APITier, error) {
	var tier models.APITier
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", tierID).
		First(&tier).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &tier, err
}
