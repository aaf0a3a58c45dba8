package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/apperrors"
)

// respondError writes the JSON error envelope for an application error.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	c.JSON(appErr.Status, gin.H{"error": appErr})
}

// userIDFromContext extracts the authenticated dashboard user's ID set by
// the JWT middleware.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	raw, ok := v.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
