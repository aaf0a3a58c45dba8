package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

type PartnerRepository struct {
	db *storage.Postgres
}

func NewPartnerRepository(db *storage.Postgres) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	return r.db.DB.WithContext(ctx).Create(partner).Error
}

func (r *PartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&partner).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &partner, err
}

// FindOwned loads a partner only if it is owned by the given dashboard user.
func (r *PartnerRepository) FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, userID).
		First(&partner).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &partner, err
}
