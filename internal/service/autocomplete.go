package service

import (
	"context"
	"strings"

	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/query"
	"github.com/rs/zerolog"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

type AutocompleteService struct {
	catalog CatalogReader
	logger  zerolog.Logger
}

func NewAutocompleteService(catalog CatalogReader, logger zerolog.Logger) *AutocompleteService {
	return &AutocompleteService{
		catalog: catalog,
		logger:  logger,
	}
}

// Suggest returns ranked brand and model suggestions for a prefix query.
// Candidates are fetched independently, capped at limit each, then ranked.
func (s *AutocompleteService) Suggest(ctx context.Context, q string, limit int) ([]query.Suggestion, error) {
	q = strings.TrimSpace(q)
	limit = clampLimit(limit, defaultSuggestLimit, maxSuggestLimit)

	if q == "" {
		return []query.Suggestion{}, nil
	}

	brands, err := s.catalog.SearchBrands(ctx, q, limit)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	carModels, err := s.catalog.SearchModels(ctx, q, limit)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	suggestions := make([]query.Suggestion, 0, len(brands)+len(carModels))

	for _, b := range brands {
		suggestions = append(suggestions, query.Suggestion{
			Type:    query.SuggestionBrand,
			Label:   b.NameEn,
			LabelAr: b.NameAr,
			Value:   b.Slug,
			Meta:    map[string]string{"logo": b.LogoURL},
		})
	}

	for _, m := range carModels {
		var brandName, brandSlug string
		if m.Brand != nil {
			brandName = m.Brand.NameEn
			brandSlug = m.Brand.Slug
		}
		suggestions = append(suggestions, query.Suggestion{
			Type:    query.SuggestionModel,
			Label:   strings.TrimSpace(brandName + " " + m.NameEn),
			LabelAr: m.NameAr,
			Value:   m.NameEn,
			Meta: map[string]string{
				"brand":      brandName,
				"brand_slug": brandSlug,
			},
		})
	}

	return query.Rank(suggestions, q, limit), nil
}
