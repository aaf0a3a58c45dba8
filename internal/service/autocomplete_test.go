package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSuggestEmptyQueryReturnsEmptySlice(t *testing.T) {
	svc := NewAutocompleteService(testCatalog(), zerolog.Nop())

	suggestions, err := svc.Suggest(context.Background(), "   ", 10)

	require.NoError(t, err)
	require.NotNil(t, suggestions)
	require.Empty(t, suggestions)
}

func TestSuggestMixesBrandsAndModels(t *testing.T) {
	svc := NewAutocompleteService(testCatalog(), zerolog.Nop())

	suggestions, err := svc.Suggest(context.Background(), "toy", 10)

	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	types := make(map[string]bool)
	for _, s := range suggestions {
		types[s.Type] = true
	}
	require.True(t, types[query.SuggestionBrand])
	require.True(t, types[query.SuggestionModel])
}

func TestSuggestModelValueIsBareModelName(t *testing.T) {
	brandID := uuid.New()
	catalog := &fakeCatalog{
		modelsByID: map[uuid.UUID][]models.CarModel{
			brandID: {{
				NameEn:  "Tiguan",
				BrandID: brandID,
				Brand:   &models.Brand{ID: brandID, NameEn: "Volkswagen", Slug: "volkswagen"},
			}},
		},
	}
	svc := NewAutocompleteService(catalog, zerolog.Nop())

	suggestions, err := svc.Suggest(context.Background(), "tig", 10)

	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.Equal(t, "Volkswagen Tiguan", suggestions[0].Label)
	require.Equal(t, "Tiguan", suggestions[0].Value)
	require.Equal(t, "volkswagen", suggestions[0].Meta["brand_slug"])
}

func TestSuggestAppliesLimitClamp(t *testing.T) {
	brandID := uuid.New()
	var carModels []models.CarModel
	for i := 0; i < 80; i++ {
		carModels = append(carModels, models.CarModel{NameEn: "Model", BrandID: brandID})
	}
	catalog := &fakeCatalog{modelsByID: map[uuid.UUID][]models.CarModel{brandID: carModels}}
	svc := NewAutocompleteService(catalog, zerolog.Nop())

	suggestions, err := svc.Suggest(context.Background(), "model", 500)

	require.NoError(t, err)
	require.Len(t, suggestions, maxSuggestLimit)
}

func TestSuggestCatalogFailureIsUpstream(t *testing.T) {
	catalog := testCatalog()
	catalog.brandsErr = errors.New("db down")
	svc := NewAutocompleteService(catalog, zerolog.Nop())

	_, err := svc.Suggest(context.Background(), "toy", 10)

	require.Equal(t, http.StatusServiceUnavailable, apperrors.HTTPStatus(err))
}
