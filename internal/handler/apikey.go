package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/service"
)

type APIKeyHandler struct {
	service *service.APIKeyService
}

func NewAPIKeyHandler(service *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

// Generate handles POST /admin/keys. The raw key is returned once and
// never stored.
func (h *APIKeyHandler) Generate(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("missing user identity"))
		return
	}

	var req struct {
		PartnerID string `json:"partner_id" binding:"required"`
		Tier      string `json:"tier"`
		Name      string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation(err.Error()))
		return
	}

	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		respondError(c, apperrors.Validation("invalid partner_id"))
		return
	}

	rawKey, key, err := h.service.Generate(c.Request.Context(), userID, partnerID, req.Tier, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":     rawKey,
		"prefix":  key.Prefix,
		"id":      key.ID,
		"tier":    key.TierID,
		"message": "Save this key - it won't be shown again",
	})
}

// Revoke handles DELETE /admin/keys/:id.
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("missing user identity"))
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid key id"))
		return
	}

	if err := h.service.Revoke(c.Request.Context(), userID, keyID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key revoked"})
}

// List handles GET /admin/keys?partner_id=...
func (h *APIKeyHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		respondError(c, apperrors.Unauthenticated("missing user identity"))
		return
	}

	partnerID, err := uuid.Parse(c.Query("partner_id"))
	if err != nil {
		respondError(c, apperrors.Validation("invalid partner_id"))
		return
	}

	keys, err := h.service.List(c.Request.Context(), userID, partnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": keys})
}
