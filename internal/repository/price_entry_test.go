package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestSearchFlattensJoinChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Toyota", "toyota", "Corolla", "1.6L Elegance")
	seedPrice(t, db, variant.ID, 2024, 1250000, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	rows, err := repo.Search(context.Background(), SearchFilter{Limit: 20})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Toyota", rows[0].Brand)
	require.Equal(t, "toyota", rows[0].BrandSlug)
	require.Equal(t, "Corolla", rows[0].Model)
	require.Equal(t, "1.6L Elegance", rows[0].Variant)
	require.Equal(t, 2024, rows[0].Year)
	require.Equal(t, float64(1250000), rows[0].Price)
	require.Equal(t, models.PriceTypeOfficial, rows[0].Type)
}

func TestSearchFiltersByBrandSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	toyota := seedCatalog(t, db, "Toyota", "toyota", "Corolla", "GLI")
	bmw := seedCatalog(t, db, "BMW", "bmw", "320i", "Sport")
	seedPrice(t, db, toyota.ID, 2024, 1250000, time.Now().UTC())
	seedPrice(t, db, bmw.ID, 2024, 3200000, time.Now().UTC())

	rows, err := repo.Search(context.Background(), SearchFilter{Brand: "toyota", Limit: 20})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "toyota", rows[0].BrandSlug)
}

func TestSearchPartialModelMatchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Volkswagen", "volkswagen", "Tiguan", "R-Line")
	seedPrice(t, db, variant.ID, 2023, 2100000, time.Now().UTC())

	rows, err := repo.Search(context.Background(), SearchFilter{Model: "TIGU", Limit: 20})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Tiguan", rows[0].Model)
}

func TestSearchOrdersByYearThenRecency(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Hyundai", "hyundai", "Elantra", "Smart")
	old := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	seedPrice(t, db, variant.ID, 2023, 900000, recent)
	seedPrice(t, db, variant.ID, 2024, 1000000, old)
	seedPrice(t, db, variant.ID, 2024, 1100000, recent)

	rows, err := repo.Search(context.Background(), SearchFilter{Limit: 20})

	require.NoError(t, err)
	require.Len(t, rows, 3)
	// Newest model year first, then freshest price within the year.
	require.Equal(t, 2024, rows[0].Year)
	require.Equal(t, float64(1100000), rows[0].Price)
	require.Equal(t, 2024, rows[1].Year)
	require.Equal(t, float64(1000000), rows[1].Price)
	require.Equal(t, 2023, rows[2].Year)
}

func TestSearchYearFilterIsExact(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Kia", "kia", "Sportage", "GT-Line")
	seedPrice(t, db, variant.ID, 2023, 1500000, time.Now().UTC())
	seedPrice(t, db, variant.ID, 2024, 1650000, time.Now().UTC())

	rows, err := repo.Search(context.Background(), SearchFilter{Year: 2023, Limit: 20})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2023, rows[0].Year)
}

func TestSearchPaginationWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Nissan", "nissan", "Sunny", "EX")
	for year := 2020; year <= 2026; year++ {
		seedPrice(t, db, variant.ID, year, float64(year)*100, time.Now().UTC())
	}

	first, err := repo.Search(context.Background(), SearchFilter{Limit: 3})
	require.NoError(t, err)
	second, err := repo.Search(context.Background(), SearchFilter{Limit: 3, Offset: 3})
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	require.Equal(t, 2026, first[0].Year)
	require.Equal(t, 2023, second[0].Year)
}

func TestSearchIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Fiat", "fiat", "Tipo", "Life")
	seedPrice(t, db, variant.ID, 2024, 850000, time.Now().UTC())

	filter := SearchFilter{Brand: "fiat", Limit: 20}
	first, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)
	second, err := repo.Search(context.Background(), filter)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	rows, err := repo.Search(context.Background(), SearchFilter{Brand: "nonexistent", Limit: 20})

	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestFindOwnedConflatesMissingAndForeign(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	owner := seedPartner(t, db, "Dealer One", "dealer-one", models.PartnerStatusActive)
	other := seedPartner(t, db, "Dealer Two", "dealer-two", models.PartnerStatusActive)

	variant := seedCatalog(t, db, "Skoda", "skoda", "Octavia", "Style")
	entry := seedPrice(t, db, variant.ID, 2024, 1800000, time.Now().UTC())
	require.NoError(t, db.DB.Model(entry).Update("partner_id", owner.ID).Error)

	ctx := context.Background()

	found, err := repo.FindOwned(ctx, entry.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	foreign, err := repo.FindOwned(ctx, entry.ID, other.ID)
	require.NoError(t, err)
	require.Nil(t, foreign)

	missing, err := repo.FindOwned(ctx, uuid.New(), owner.ID)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdatePriceChangesAmountAndValidity(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	variant := seedCatalog(t, db, "Renault", "renault", "Megane", "Dynamique")
	entry := seedPrice(t, db, variant.ID, 2024, 1100000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	newValidFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdatePrice(context.Background(), entry.ID, 1175000, newValidFrom))

	var updated models.PriceEntry
	require.NoError(t, db.DB.First(&updated, "id = ?", entry.ID).Error)
	require.Equal(t, float64(1175000), updated.PriceAmount)
	require.Equal(t, newValidFrom.Unix(), updated.ValidFrom.Unix())
}

func TestListByPartnerPreloadsCatalogChain(t *testing.T) {
	db := newTestDB(t)
	repo := NewPriceEntryRepository(db)

	partner := seedPartner(t, db, "Dealer", "dealer", models.PartnerStatusActive)
	variant := seedCatalog(t, db, "Peugeot", "peugeot", "3008", "Allure")
	entry := seedPrice(t, db, variant.ID, 2025, 2250000, time.Now().UTC())
	require.NoError(t, db.DB.Model(entry).Update("partner_id", partner.ID).Error)

	entries, err := repo.ListByPartner(context.Background(), partner.ID)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Variant)
	require.NotNil(t, entries[0].Variant.Model)
	require.NotNil(t, entries[0].Variant.Model.Brand)
	require.Equal(t, "Peugeot", entries[0].Variant.Model.Brand.NameEn)
}
