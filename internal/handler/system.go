package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/storage"
)

// Handles system-related endpoints
type SystemHandler struct {
	db    *storage.Postgres
	redis *storage.RedisClient
}

func NewSystemHandler(db *storage.Postgres, redis *storage.RedisClient) *SystemHandler {
	return &SystemHandler{
		db:    db,
		redis: redis,
	}
}

// Health handles GET /health, pinging both stores.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	overall := "healthy"
	checks := gin.H{"database": "ok", "redis": "ok"}

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	if err := h.redis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
