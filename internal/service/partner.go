package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/rs/zerolog"
)

// MetadataItem is an id/name pair for the portal's catalog pickers.
type MetadataItem struct {
	ID     uuid.UUID `json:"id"`
	NameEn string    `json:"name_en"`
}

// CreateListingInput holds the payload of a create_listing action.
type CreateListingInput struct {
	VariantID   uuid.UUID
	YearModel   int
	PriceAmount float64
	Currency    string
}

// PartnerService is the write side of the partner portal: metadata reads,
// listing submission, and price updates with ownership checks.
type PartnerService struct {
	keys     *repository.APIKeyRepository
	partners *repository.PartnerRepository
	catalog  *repository.CatalogRepository
	prices   *repository.PriceEntryRepository
	audit    *repository.AuditRepository
	logger   zerolog.Logger
}

func NewPartnerService(
	keys *repository.APIKeyRepository,
	partners *repository.PartnerRepository,
	catalog *repository.CatalogRepository,
	prices *repository.PriceEntryRepository,
	audit *repository.AuditRepository,
	logger zerolog.Logger,
) *PartnerService {
	return &PartnerService{
		keys:     keys,
		partners: partners,
		catalog:  catalog,
		prices:   prices,
		audit:    audit,
		logger:   logger,
	}
}

// Authenticate resolves a portal credential to its partner. Portal access
// is not rate limited; it only requires a live key.
func (s *PartnerService) Authenticate(ctx context.Context, credential string) (*models.Partner, error) {
	if credential == "" {
		return nil, apperrors.Unauthenticated("missing partner key")
	}

	apiKey, err := s.keys.FindByHash(ctx, HashKey(credential))
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if apiKey == nil || apiKey.IsRevoked || apiKey.Partner == nil {
		return nil, apperrors.InvalidCredential()
	}
	if apiKey.Partner.Status != models.PartnerStatusActive {
		return nil, apperrors.Forbidden("account pending approval")
	}

	return apiKey.Partner, nil
}

// GetMetadata returns catalog id/name lists for the portal pickers:
// all brands, models of a brand, or variants of a model.
func (s *PartnerService) GetMetadata(ctx context.Context, metaType string, filterID uuid.UUID) ([]MetadataItem, error) {
	switch metaType {
	case "brands":
		brands, err := s.catalog.ListBrands(ctx)
		if err != nil {
			return nil, apperrors.Upstream(err)
		}
		items := make([]MetadataItem, len(brands))
		for i, b := range brands {
			items[i] = MetadataItem{ID: b.ID, NameEn: b.NameEn}
		}
		return items, nil

	case "models":
		if filterID == uuid.Nil {
			return []MetadataItem{}, nil
		}
		carModels, err := s.catalog.ListModelsByBrand(ctx, filterID)
		if err != nil {
			return nil, apperrors.Upstream(err)
		}
		items := make([]MetadataItem, len(carModels))
		for i, m := range carModels {
			items[i] = MetadataItem{ID: m.ID, NameEn: m.NameEn}
		}
		return items, nil

	case "variants":
		if filterID == uuid.Nil {
			return []MetadataItem{}, nil
		}
		variants, err := s.catalog.ListVariantsByModel(ctx, filterID)
		if err != nil {
			return nil, apperrors.Upstream(err)
		}
		items := make([]MetadataItem, len(variants))
		for i, v := range variants {
			items[i] = MetadataItem{ID: v.ID, NameEn: v.NameEn}
		}
		return items, nil
	}

	return []MetadataItem{}, nil
}

// CreateListing inserts a partner-owned price entry and appends an audit
// record. The audit append is post-commit and non-fatal.
func (s *PartnerService) CreateListing(ctx context.Context, partner *models.Partner, input CreateListingInput) (*models.PriceEntry, error) {
	if input.VariantID == uuid.Nil || input.YearModel == 0 || input.PriceAmount == 0 {
		return nil, apperrors.Validation("variant_id, year_model and price_amount are required")
	}

	currency := input.Currency
	if currency == "" {
		currency = "EGP"
	}

	entry := &models.PriceEntry{
		VariantID:   input.VariantID,
		YearModel:   input.YearModel,
		PriceAmount: input.PriceAmount,
		Currency:    currency,
		Type:        models.PriceTypeOfficial,
		IsVerified:  true,
		PartnerID:   &partner.ID,
	}

	if err := s.prices.Create(ctx, entry); err != nil {
		return nil, apperrors.Upstream(err)
	}

	s.appendAudit(ctx, partner.ID, models.AuditActionCreateListing, entry.ID.String(),
		"", fmt.Sprintf(`{"variant_id":%q,"year_model":%d,"price":%g}`, input.VariantID, input.YearModel, input.PriceAmount))

	return entry, nil
}

// UpdatePrice mutates a partner's own entry and appends the change log and
// audit record. Ownership failures are indistinguishable from missing rows.
// Log appends after a successful mutation do not roll it back.
func (s *PartnerService) UpdatePrice(ctx context.Context, partner *models.Partner, entryID uuid.UUID, newPrice float64) error {
	if entryID == uuid.Nil || newPrice <= 0 {
		return apperrors.Validation("id and a positive new_price are required")
	}

	entry, err := s.prices.FindOwned(ctx, entryID, partner.ID)
	if err != nil {
		return apperrors.Upstream(err)
	}
	if entry == nil {
		return apperrors.NotFoundOrUnauthorized("price entry")
	}

	if err := s.prices.UpdatePrice(ctx, entryID, newPrice, time.Now().UTC()); err != nil {
		return apperrors.Upstream(err)
	}

	if err := s.audit.AppendPriceChange(ctx, &models.PriceChangeLog{
		PriceEntryID:       entryID,
		OldPrice:           entry.PriceAmount,
		NewPrice:           newPrice,
		ChangedByPartnerID: partner.ID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("entry_id", entryID.String()).Msg("price change log append failed")
	}

	s.appendAudit(ctx, partner.ID, models.AuditActionUpdatePrice, entryID.String(),
		fmt.Sprintf(`{"price":%g}`, entry.PriceAmount), fmt.Sprintf(`{"price":%g}`, newPrice))

	return nil
}

// Listings returns the partner's own entries, newest first.
func (s *PartnerService) Listings(ctx context.Context, partner *models.Partner) ([]models.PriceEntry, error) {
	entries, err := s.prices.ListByPartner(ctx, partner.ID)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return entries, nil
}

func (s *PartnerService) appendAudit(ctx context.Context, partnerID uuid.UUID, action, entityID, oldData, newData string) {
	err := s.audit.AppendAudit(ctx, &models.AuditLog{
		PartnerID:   &partnerID,
		Action:      action,
		EntityTable: "price_entries",
		EntityID:    entityID,
		OldData:     oldData,
		NewData:     newData,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}
}
