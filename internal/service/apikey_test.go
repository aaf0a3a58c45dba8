package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/notify"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type keyFixture struct {
	parent  *partnerFixture
	service *APIKeyService
	keys    *repository.APIKeyRepository
}

func newKeyFixture(t *testing.T) *keyFixture {
	t.Helper()

	pf := newPartnerFixture(t)

	keys := repository.NewAPIKeyRepository(pf.db)
	partners := repository.NewPartnerRepository(pf.db)
	usage := repository.NewUsageRepository(pf.db)
	audit := repository.NewAuditRepository(pf.db)

	gate := NewGateService(keys, usage, nil, zerolog.Nop())
	notifier := notify.NewWebhookNotifier("", zerolog.Nop())

	return &keyFixture{
		parent:  pf,
		service: NewAPIKeyService(keys, partners, audit, gate, notifier, zerolog.Nop()),
		keys:    keys,
	}
}

func (f *keyFixture) seedOwnedPartner(t *testing.T, userID uuid.UUID) *models.Partner {
	t.Helper()
	partner := &models.Partner{
		Name:        "Dealer",
		Slug:        "dealer",
		Status:      models.PartnerStatusActive,
		OwnerUserID: &userID,
	}
	require.NoError(t, f.parent.db.DB.Create(partner).Error)
	return partner
}

func TestGenerateReturnsRawKeyOnce(t *testing.T) {
	f := newKeyFixture(t)
	userID := uuid.New()
	partner := f.seedOwnedPartner(t, userID)

	rawKey, key, err := f.service.Generate(context.Background(), userID, partner.ID, "startup", "CI key")

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rawKey, "ok_"))
	require.Len(t, rawKey, 3+48)
	require.Equal(t, rawKey[:8], key.Prefix)
	require.Equal(t, "startup", key.TierID)

	// Only the digest is stored; the raw key appears nowhere.
	stored, err := f.keys.FindByID(context.Background(), key.ID)
	require.NoError(t, err)
	require.Equal(t, HashKey(rawKey), stored.KeyHash)
	require.NotEqual(t, rawKey, stored.KeyHash)
}

func TestGenerateForForeignPartnerRejected(t *testing.T) {
	f := newKeyFixture(t)
	owner := uuid.New()
	partner := f.seedOwnedPartner(t, owner)

	_, _, err := f.service.Generate(context.Background(), uuid.New(), partner.ID, "free", "key")

	require.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}

func TestRevokeOwnKeyInvalidatesIt(t *testing.T) {
	f := newKeyFixture(t)
	userID := uuid.New()
	partner := f.seedOwnedPartner(t, userID)

	rawKey, key, err := f.service.Generate(context.Background(), userID, partner.ID, "free", "key")
	require.NoError(t, err)

	require.NoError(t, f.service.Revoke(context.Background(), userID, key.ID))

	stored, err := f.keys.FindByHash(context.Background(), HashKey(rawKey))
	require.NoError(t, err)
	require.True(t, stored.IsRevoked)
}

func TestRevokeForeignKeyRejected(t *testing.T) {
	f := newKeyFixture(t)
	userID := uuid.New()
	partner := f.seedOwnedPartner(t, userID)

	_, key, err := f.service.Generate(context.Background(), userID, partner.ID, "free", "key")
	require.NoError(t, err)

	err = f.service.Revoke(context.Background(), uuid.New(), key.ID)

	require.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))

	stored, findErr := f.keys.FindByID(context.Background(), key.ID)
	require.NoError(t, findErr)
	require.False(t, stored.IsRevoked)
}

func TestListScopedToOwnedPartner(t *testing.T) {
	f := newKeyFixture(t)
	userID := uuid.New()
	partner := f.seedOwnedPartner(t, userID)

	_, _, err := f.service.Generate(context.Background(), userID, partner.ID, "free", "one")
	require.NoError(t, err)
	_, _, err = f.service.Generate(context.Background(), userID, partner.ID, "free", "two")
	require.NoError(t, err)

	keys, err := f.service.List(context.Background(), userID, partner.ID)
	require.NoError(t, err)
	require.Len(t, keys, 2)

	_, err = f.service.List(context.Background(), uuid.New(), partner.ID)
	require.Equal(t, http.StatusNotFound, apperrors.HTTPStatus(err))
}
