package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
)

// CatalogRepository reads the brand/model/variant hierarchy. All queries are
// read-only; partial matches are case-insensitive substrings.
type CatalogRepository struct {
	db *storage.Postgres
}

func NewCatalogRepository(db *storage.Postgres) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.DB.WithContext(ctx).
		Order("name_en ASC").
		Find(&brands).Error

	return brands, err
}

func (r *CatalogRepository) ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.CarModel, error) {
	var carModels []models.CarModel
	err := r.db.DB.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("name_en ASC").
		Find(&carModels).Error

	return carModels, err
}

func (r *CatalogRepository) ListVariantsByModel(ctx context.Context, modelID uuid.UUID) ([]models.Variant, error) {
	var variants []models.Variant
	err := r.db.DB.WithContext(ctx).
		Where("model_id = ?", modelID).
		Order("name_en ASC").
		Find(&variants).Error

	return variants, err
}

func (r *CatalogRepository) FindBrandBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.DB.WithContext(ctx).
		Where("slug = ?", slug).
		First(&brand).Error

	if isNotFound(err) {
		return nil, nil
	}

	return &brand, err
}

// SearchBrands finds brands whose English or Arabic name contains q.
func (r *CatalogRepository) SearchBrands(ctx context.Context, q string, limit int) ([]models.Brand, error) {
	var brands []models.Brand
	pattern := likePattern(q)
	err := r.db.DB.WithContext(ctx).
		Where("LOWER(name_en) LIKE ? OR LOWER(name_ar) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&brands).Error

	return brands, err
}

// SearchModels finds models whose English name contains q, with the owning
// brand loaded for labelling.
func (r *CatalogRepository) SearchModels(ctx context.Context, q string, limit int) ([]models.CarModel, error) {
	var carModels []models.CarModel
	err := r.db.DB.WithContext(ctx).
		Preload("Brand").
		Where("LOWER(name_en) LIKE ?", likePattern(q)).
		Limit(limit).
		Find(&carModels).Error

	return carModels, err
}
