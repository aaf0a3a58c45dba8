package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/notify"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/rs/zerolog"
)

const keyPrefixLen = 8

type APIKeyService struct {
	keys     *repository.APIKeyRepository
	partners *repository.PartnerRepository
	audit    *repository.AuditRepository
	gate     *GateService
	notifier *notify.WebhookNotifier
	logger   zerolog.Logger
}

func NewAPIKeyService(
	keys *repository.APIKeyRepository,
	partners *repository.PartnerRepository,
	audit *repository.AuditRepository,
	gate *GateService,
	notifier *notify.WebhookNotifier,
	logger zerolog.Logger,
) *APIKeyService {
	return &APIKeyService{
		keys:     keys,
		partners: partners,
		audit:    audit,
		gate:     gate,
		notifier: notifier,
		logger:   logger,
	}
}

// Generate mints a new key for a partner the user owns. The raw secret is
// returned exactly once; only its digest and display prefix are stored.
func (s *APIKeyService) Generate(ctx context.Context, userID, partnerID uuid.UUID, tierID, name string) (string, *models.APIKey, error) {
	partner, err := s.partners.FindOwned(ctx, partnerID, userID)
	if err != nil {
		return "", nil, apperrors.Upstream(err)
	}
	if partner == nil {
		return "", nil, apperrors.NotFoundOrUnauthorized("partner")
	}

	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", nil, fmt.Errorf("failed to generate random key: %w", err)
	}
	rawKey := "ok_" + hex.EncodeToString(keyBytes)

	if tierID == "" {
		tierID = "free"
	}
	if name == "" {
		name = "Default Key"
	}

	apiKey := &models.APIKey{
		PartnerID: partner.ID,
		TierID:    tierID,
		KeyHash:   HashKey(rawKey),
		Prefix:    rawKey[:keyPrefixLen],
		Name:      name,
	}

	if err := s.keys.Create(ctx, apiKey); err != nil {
		return "", nil, apperrors.Upstream(err)
	}

	s.appendAudit(ctx, partner.ID, models.AuditActionGenerateKey, apiKey.ID.String())

	// Post-commit notification; never fails the request.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.NotifyKeyGenerated(ctx, notify.KeyEvent{
			Action:      "request_approval",
			PartnerID:   partner.ID.String(),
			PartnerName: partner.Name,
			Tier:        tierID,
			KeyPrefix:   apiKey.Prefix,
		})
	}()

	return rawKey, apiKey, nil
}

// Revoke marks a key revoked if the user owns its partner. Set-once.
func (s *APIKeyService) Revoke(ctx context.Context, userID, keyID uuid.UUID) error {
	apiKey, err := s.keys.FindByID(ctx, keyID)
	if err != nil {
		return apperrors.Upstream(err)
	}
	if apiKey == nil {
		return apperrors.NotFoundOrUnauthorized("API key")
	}

	partner, err := s.partners.FindOwned(ctx, apiKey.PartnerID, userID)
	if err != nil {
		return apperrors.Upstream(err)
	}
	if partner == nil {
		return apperrors.NotFoundOrUnauthorized("API key")
	}

	if err := s.keys.Revoke(ctx, keyID); err != nil {
		return apperrors.Upstream(err)
	}

	s.gate.InvalidateKeyCache(ctx, apiKey.KeyHash)
	s.appendAudit(ctx, partner.ID, models.AuditActionRevokeKey, keyID.String())

	return nil
}

// List returns a partner's keys (hashes excluded by the model's json tags).
func (s *APIKeyService) List(ctx context.Context, userID, partnerID uuid.UUID) ([]models.APIKey, error) {
	partner, err := s.partners.FindOwned(ctx, partnerID, userID)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	if partner == nil {
		return nil, apperrors.NotFoundOrUnauthorized("partner")
	}

	keys, err := s.keys.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return keys, nil
}

func (s *APIKeyService) appendAudit(ctx context.Context, partnerID uuid.UUID, action, entityID string) {
	err := s.audit.AppendAudit(ctx, &models.AuditLog{
		PartnerID:   &partnerID,
		Action:      action,
		EntityTable: "api_keys",
		EntityID:    entityID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("audit append failed")
	}
}
