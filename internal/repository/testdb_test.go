package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/storage"
	"github.com/stretchr/testify/require"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// newTestDB opens a throwaway SQLite database with the full schema. The
// modernc driver keeps the tests cgo-free.
func newTestDB(t *testing.T) *storage.Postgres {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.sqlite") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlitedriver.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection serializes writers, which SQLite needs anyway.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := &storage.Postgres{DB: db}
	require.NoError(t, store.AutoMigrate())

	t.Cleanup(func() { _ = store.Close() })

	return store
}

// seedCatalog inserts a brand/model/variant chain and returns the variant.
func seedCatalog(t *testing.T, db *storage.Postgres, brandName, brandSlug, modelName, variantName string) *models.Variant {
	t.Helper()

	brand := &models.Brand{NameEn: brandName, Slug: brandSlug}
	require.NoError(t, db.DB.Create(brand).Error)

	model := &models.CarModel{BrandID: brand.ID, NameEn: modelName}
	require.NoError(t, db.DB.Create(model).Error)

	variant := &models.Variant{ModelID: model.ID, NameEn: variantName}
	require.NoError(t, db.DB.Create(variant).Error)

	return variant
}

func seedPrice(t *testing.T, db *storage.Postgres, variantID uuid.UUID, year int, amount float64, validFrom time.Time) *models.PriceEntry {
	t.Helper()

	entry := &models.PriceEntry{
		VariantID:   variantID,
		YearModel:   year,
		PriceAmount: amount,
		Currency:    "EGP",
		Type:        models.PriceTypeOfficial,
		ValidFrom:   validFrom,
	}
	require.NoError(t, db.DB.Create(entry).Error)

	return entry
}

func seedPartner(t *testing.T, db *storage.Postgres, name, slug, status string) *models.Partner {
	t.Helper()

	partner := &models.Partner{Name: name, Slug: slug, Status: status}
	require.NoError(t, db.DB.Create(partner).Error)

	return partner
}
