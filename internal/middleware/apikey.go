package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/apperrors"
	"github.com/open-egypt/pricing-api/internal/service"
)

// Context keys set by the gate for downstream handlers and the request
// logger.
const (
	CtxAPIKeyID  = "api_key_id"
	CtxPartnerID = "partner_id"
)

// APIKeyGate authenticates the X-API-Key header and enforces the tier's
// hourly quota. Admitted requests get rate-limit headers and the key and
// partner ids in the request context.
func APIKeyGate(gate *service.GateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := strings.TrimSpace(c.GetHeader("X-API-Key"))

		result, err := gate.Authenticate(c.Request.Context(), credential)
		if err != nil {
			appErr := apperrors.AsAppError(err)

			if errors.Is(err, apperrors.ErrRateLimited) {
				c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", appErr.Limit))
				c.Header("X-RateLimit-Remaining", "0")
				c.JSON(appErr.Status, gin.H{
					"error": appErr.Message,
					"usage": appErr.Usage,
					"limit": appErr.Limit,
				})
				c.Abort()
				return
			}

			c.JSON(appErr.Status, gin.H{"error": appErr.Message})
			c.Abort()
			return
		}

		remaining := result.Limit - result.Usage
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Set(CtxAPIKeyID, result.KeyID)
		c.Set(CtxPartnerID, result.PartnerID)

		c.Next()
	}
}
