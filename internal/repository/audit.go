package repository

import (
	"context"

	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

// AuditRepository appends change-log and audit rows. Appends are never part
// of the mutating transaction; failures are surfaced to the caller, which
// logs and continues.
type AuditRepository struct {
	db *storage.Postgres
}

func NewAuditRepository(db *storage.Postgres) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	return r.db.DB.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) AppendPriceChange(ctx context.Context, entry *models.PriceChangeLog) error {
	return r.db.DB.WithContext(ctx).Create(entry).Error
}
