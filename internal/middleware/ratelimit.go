package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/ratelimit"
)

// IPRateLimit puts a fixed-window burst limit on unauthenticated public
// endpoints, keyed by client IP. A redis failure here fails open: this is a
// courtesy limit, not the quota gate.
func IPRateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := c.ClientIP()

		allowed, err := limiter.Allow(ctx, key)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))
		if remaining, err := limiter.Remaining(ctx, key); err == nil {
			c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		}

		if !allowed {
			// Full window as the Retry-After fallback when the reset
			// time can't be read.
			retryAfter := int(limiter.Window().Seconds())
			if resetTime, err := limiter.Reset(ctx, key); err == nil {
				retryAfter = int(time.Until(resetTime).Seconds())
			}
			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
