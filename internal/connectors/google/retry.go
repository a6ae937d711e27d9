package google

import (
	"context"
	"time"

	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Retry defaults.
const (
	DefaultMaxRetries  = 3
	DefaultBaseBackoff = 500 * time.Millisecond
	DefaultMaxBackoff  = 30 * time.Second
)

// Retrier runs Drive calls through the rate limiter and retries transient
// failures with exponential backoff.
type Retrier struct {
	limiter    *RateLimiter
	maxRetries int
	base       time.Duration
	max        time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// RetryOption configures a Retrier.
type RetryOption func(*Retrier)

// WithBackoff sets the first retry delay and the cap it doubles up to.
func WithBackoff(base, max time.Duration) RetryOption {
	return func(r *Retrier) {
		r.base = base
		r.max = max
	}
}

// NewRetrier creates a retrier. A nil limiter disables rate limiting.
func NewRetrier(limiter *RateLimiter, maxRetries int, opts ...RetryOption) *Retrier {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	r := &Retrier{
		limiter:    limiter,
		maxRetries: maxRetries,
		base:       DefaultBaseBackoff,
		max:        DefaultMaxBackoff,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do calls fn until it succeeds, fails permanently or retries run out.
// The returned error is wrapped with WrapError.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if r.limiter != nil {
			if werr := r.limiter.Wait(ctx); werr != nil {
				return werr
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsRetryable(err) || attempt >= r.maxRetries {
			return WrapError(op, err)
		}

		delay := r.backoff(attempt)
		if IsRateLimited(err) {
			if after := RetryAfter(err); after > 0 {
				delay = after
			}
			if r.limiter != nil && delay > 0 {
				r.limiter.Pause(delay)
			}
		}
		logger.Debug("%s: attempt %d failed, retrying in %s: %v", op, attempt+1, delay, err)

		if serr := r.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

func (r *Retrier) backoff(attempt int) time.Duration {
	d := r.base << attempt
	if d <= 0 || d > r.max {
		return r.max
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
