package ratelimit

import (
	"context"
	"time"
)

// Limiter is a windowed counter keyed by caller identity. Used for IP-based
// burst limiting on unauthenticated endpoints; authenticated quota
// enforcement lives in the API key gate.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)

	Remaining(ctx context.Context, key string) (int, error)

	Limit() int

	Window() time.Duration

	Reset(ctx context.Context, key string) (time.Time, error)
}
