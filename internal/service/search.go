package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/query"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/rs/zerolog"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// CatalogReader is the catalog surface the search path needs.
type CatalogReader interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.CarModel, error)
	SearchBrands(ctx context.Context, q string, limit int) ([]models.Brand, error)
	SearchModels(ctx context.Context, q string, limit int) ([]models.CarModel, error)
}

// PriceSearcher executes a composed filter.
type PriceSearcher interface {
	Search(ctx context.Context, filter repository.SearchFilter) ([]repository.CarPrice, error)
}

// SearchParams are the raw request parameters. Q is only consulted when no
// explicit brand/model/variant filter is present.
type SearchParams struct {
	Q       string
	Brand   string
	Model   string
	Variant string
	Year    int
	Limit   int
	Offset  int
}

// SearchMeta echoes the effective window and the filters that were applied,
// disambiguated or explicit.
type SearchMeta struct {
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	Count   int          `json:"count"`
	Filters query.Filter `json:"filters"`
}

// SearchResult is the public response shape.
type SearchResult struct {
	Data []repository.CarPrice `json:"data"`
	Meta SearchMeta            `json:"meta"`
}

type SearchService struct {
	catalog CatalogReader
	prices  PriceSearcher
	logger  zerolog.Logger
}

func NewSearchService(catalog CatalogReader, prices PriceSearcher, logger zerolog.Logger) *SearchService {
	return &SearchService{
		catalog: catalog,
		prices:  prices,
		logger:  logger,
	}
}

// Search resolves a price search: free-text queries are disambiguated
// against the catalog first, then the filter runs against the price store.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	limit := clampLimit(params.Limit, defaultSearchLimit, maxSearchLimit)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := query.Filter{
		Brand:   params.Brand,
		Model:   params.Model,
		Variant: params.Variant,
	}

	if params.Q != "" && filter == (query.Filter{}) {
		resolved, err := s.disambiguate(ctx, params.Q)
		if err != nil {
			return nil, err
		}
		filter = resolved
	}

	rows, err := s.prices.Search(ctx, repository.SearchFilter{
		Brand:   filter.Brand,
		Model:   filter.Model,
		Variant: filter.Variant,
		Year:    params.Year,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, apperrors.Upstream(err)
	}

	return &SearchResult{
		Data: rows,
		Meta: SearchMeta{
			Limit:   limit,
			Offset:  offset,
			Count:   len(rows),
			Filters: filter,
		},
	}, nil
}

// disambiguate loads the brand catalog and lets the pure matcher split the
// query. Models are fetched lazily, only for the matched brand.
func (s *SearchService) disambiguate(ctx context.Context, q string) (query.Filter, error) {
	brands, err := s.catalog.ListBrands(ctx)
	if err != nil {
		return query.Filter{}, apperrors.Upstream(err)
	}

	refs := make([]query.Brand, len(brands))
	idBySlug := make(map[string]uuid.UUID, len(brands))
	for i, b := range brands {
		refs[i] = query.Brand{NameEn: b.NameEn, NameAr: b.NameAr, Slug: b.Slug}
		idBySlug[b.Slug] = b.ID
	}

	filter := query.Disambiguate(q, refs, func(matched query.Brand) []query.Model {
		brandID, ok := idBySlug[matched.Slug]
		if !ok {
			return nil
		}
		carModels, err := s.catalog.ListModelsByBrand(ctx, brandID)
		if err != nil {
			// Best effort: a failed model fetch degrades to the
			// remainder-as-model fallback instead of failing the search.
			s.logger.Warn().Err(err).Str("brand", matched.Slug).Msg("model fetch for disambiguation failed")
			return nil
		}
		refs := make([]query.Model, len(carModels))
		for i, m := range carModels {
			refs[i] = query.Model{NameEn: m.NameEn}
		}
		return refs
	})

	return filter, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
