package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Drive quota defaults. Drive allows roughly 10 queries per second per user.
const (
	DefaultRequestsPerSecond = 8.0
	DefaultBurst             = 10
	DefaultQuotaPause        = 60 * time.Second
)

// RateLimiter spaces Drive calls with a token bucket and holds every caller
// back while the API has asked the client to slow down.
type RateLimiter struct {
	bucket *rate.Limiter

	mu          sync.Mutex
	pausedUntil time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests per
// second with the given burst. Non-positive values fall back to defaults.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until any quota pause has passed and a token is available.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if d := r.PausedFor(); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return r.bucket.Wait(ctx)
}

// Pause holds callers back for d, or DefaultQuotaPause when d is not
// positive. A pause never shortens one already in force.
func (r *RateLimiter) Pause(d time.Duration) {
	if d <= 0 {
		d = DefaultQuotaPause
	}
	until := time.Now().Add(d)

	r.mu.Lock()
	if until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
	r.mu.Unlock()
}

// PausedFor reports how long callers are still held back.
func (r *RateLimiter) PausedFor() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return max(time.Until(r.pausedUntil), 0)
}

// Ready reports whether a call could go out now, consuming a token if so.
func (r *RateLimiter) Ready() bool {
	return r.PausedFor() == 0 && r.bucket.Allow()
}
