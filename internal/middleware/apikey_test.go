package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/open-egypt/pricing-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubKeyStore struct {
	key *models.APIKey
}

func (s *stubKeyStore) FindByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	if s.key != nil && s.key.KeyHash == hash {
		return s.key, nil
	}
	return nil, nil
}

func (s *stubKeyStore) FindTier(ctx context.Context, tierID string) (*models.APITier, error) {
	return &models.APITier{ID: tierID, RequestsPerHour: 2}, nil
}

func (s *stubKeyStore) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubUsageStore struct {
	mu    sync.Mutex
	count int64
}

func (s *stubUsageStore) Increment(ctx context.Context, keyID uuid.UUID, bucket time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return s.count, nil
}

func newGateRouter(gate *service.GateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(APIKeyGate(gate))
	router.GET("/v1/prices", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAPIKeyGateMissingKeyReturns401(t *testing.T) {
	gate := service.NewGateService(&stubKeyStore{}, &stubUsageStore{}, nil, zerolog.Nop())
	router := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/prices", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyGateUnknownKeyReturns403(t *testing.T) {
	gate := service.NewGateService(&stubKeyStore{}, &stubUsageStore{}, nil, zerolog.Nop())
	router := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/prices", nil)
	req.Header.Set("X-API-Key", "ok_not_a_real_key")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIKeyGateSetsRateLimitHeaders(t *testing.T) {
	raw := "ok_header_test_key"
	partnerID := uuid.New()
	keys := &stubKeyStore{key: &models.APIKey{
		ID:        uuid.New(),
		PartnerID: partnerID,
		TierID:    "free",
		KeyHash:   service.HashKey(raw),
		Partner:   &models.Partner{ID: partnerID, Status: models.PartnerStatusActive},
	}}

	gate := service.NewGateService(keys, &stubUsageStore{}, nil, zerolog.Nop())
	router := newGateRouter(gate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/prices", nil)
	req.Header.Set("X-API-Key", raw)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
}

func TestAPIKeyGateRateLimitedResponse(t *testing.T) {
	raw := "ok_limited_test_key"
	partnerID := uuid.New()
	keys := &stubKeyStore{key: &models.APIKey{
		ID:        uuid.New(),
		PartnerID: partnerID,
		TierID:    "free",
		KeyHash:   service.HashKey(raw),
		Partner:   &models.Partner{ID: partnerID, Status: models.PartnerStatusActive},
	}}

	gate := service.NewGateService(keys, &stubUsageStore{}, nil, zerolog.Nop())
	router := newGateRouter(gate)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/prices", nil)
		req.Header.Set("X-API-Key", raw)
		router.ServeHTTP(last, req)
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	require.Contains(t, last.Body.String(), `"usage":3`)
	require.Contains(t, last.Body.String(), `"limit":2`)
}
