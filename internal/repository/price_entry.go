package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
	"gorm.io/gorm"
)

// SearchFilter is the predicate set for a price search. Zero values mean
// "not filtered". Brand matches name_en or slug; model and variant match
// name_en; all partial and case-insensitive. Year is exact.
type SearchFilter struct {
	Brand   string
	Model   string
	Variant string
	Year    int
	Limit   int
	Offset  int
}

// CarPrice is the flattened public row produced by the three-level join.
type CarPrice struct {
	ID        uuid.UUID `json:"id"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Year      int       `json:"year"`
	Brand     string    `json:"brand"`
	BrandAr   string    `json:"brand_ar,omitempty"`
	BrandSlug string    `json:"brand_slug"`
	BrandLogo string    `json:"brand_logo,omitempty"`
	Model     string    `json:"model"`
	ModelAr   string    `json:"model_ar,omitempty"`
	Variant   string    `json:"variant"`
	VariantAr string    `json:"variant_ar,omitempty"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
}

type PriceEntryRepository struct {
	db *storage.Postgres
}

func NewPriceEntryRepository(db *storage.Postgres) *PriceEntryRepository {
	return &PriceEntryRepository{db: db}
}

// Search runs the filtered, ordered, windowed query. Inner joins exclude
// entries whose variant/model/brand chain is broken.
func (r *PriceEntryRepository) Search(ctx context.Context, filter SearchFilter) ([]CarPrice, error) {
	rows := make([]CarPrice, 0)
	err := ApplyFilter(r.searchBase(ctx), filter).Scan(&rows).Error

	return rows, err
}

func (r *PriceEntryRepository) searchBase(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).
		Table("price_entries").
		Select(`price_entries.id,
			price_entries.price_amount AS price,
			price_entries.currency,
			price_entries.year_model AS year,
			brands.name_en AS brand,
			brands.name_ar AS brand_ar,
			brands.slug AS brand_slug,
			brands.logo_url AS brand_logo,
			models.name_en AS model,
			models.name_ar AS model_ar,
			variants.name_en AS variant,
			variants.name_ar AS variant_ar,
			price_entries.type,
			price_entries.valid_from AS date`).
		Joins("JOIN variants ON variants.id = price_entries.variant_id").
		Joins("JOIN models ON models.id = variants.model_id").
		Joins("JOIN brands ON brands.id = models.brand_id")
}

// ApplyFilter composes the predicate, ordering, and window onto a base
// query. Separated from execution so predicate construction is testable
// against a fixed in-memory catalog.
func ApplyFilter(tx *gorm.DB, filter SearchFilter) *gorm.DB {
	if filter.Brand != "" {
		pattern := likePattern(filter.Brand)
		tx = tx.Where("LOWER(brands.name_en) LIKE ? OR LOWER(brands.slug) LIKE ?", pattern, pattern)
	}
	if filter.Model != "" {
		tx = tx.Where("LOWER(models.name_en) LIKE ?", likePattern(filter.Model))
	}
	if filter.Variant != "" {
		tx = tx.Where("LOWER(variants.name_en) LIKE ?", likePattern(filter.Variant))
	}
	if filter.Year != 0 {
		tx = tx.Where("price_entries.year_model = ?", filter.Year)
	}

	return tx.
		Order("price_entries.year_model DESC").
		Order("price_entries.valid_from DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)
}

func (r *PriceEntryRepository) Create(ctx context.Context, entry *models.PriceEntry) error {
	return r.db.DB.WithContext(ctx).Create(entry).Error
}

// FindOwned loads an entry only if it belongs to the given partner.
// Missing and not-owned are indistinguishable to the caller.
func (r *PriceEntryRepository) FindOwned(ctx context.Context, id, partnerID uuid.UUID) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND partner_id = ?", id, partnerID).
		First(&entry).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &entry, err
}

func (r *PriceEntryRepository) UpdatePrice(ctx context.Context, id uuid.UUID, newPrice float64, validFrom time.Time) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.PriceEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price_amount": newPrice,
			"valid_from":   validFrom,
		}).Error
}

// ListByPartner returns a partner's own listings, newest first.
func (r *PriceEntryRepository) ListByPartner(ctx context.Context, partnerID uuid.UUID) ([]models.PriceEntry, error) {
	var entries []models.PriceEntry
	err := r.db.DB.WithContext(ctx).
		Preload("Variant").
		Preload("Variant.Model").
		Preload("Variant.Model.Brand").
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&entries).Error

	return entries, err
}
