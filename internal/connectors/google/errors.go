package google

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsRateLimited returns true if the error indicates rate limiting. Drive
// also reports per-user rate limits as 403 with a rateLimitExceeded reason.
func IsRateLimited(err error) bool {
	if statusOf(err) == http.StatusTooManyRequests {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
		for _, item := range gerr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// IsRetryable returns true for rate limits and server errors.
func IsRetryable(err error) bool {
	if IsRateLimited(err) {
		return true
	}
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	return statusOf(err) >= http.StatusInternalServerError
}

// WrapError converts a Google API error to a *domain.ProviderError that
// carries the HTTP status and the API's message. Other errors are
// returned unchanged.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return err
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	status := gerr.Code
	if status == http.StatusForbidden && IsRateLimited(gerr) {
		status = http.StatusTooManyRequests
	}
	msg := gerr.Message
	if msg == "" {
		msg = http.StatusText(gerr.Code)
	}
	return &domain.ProviderError{Op: op, Status: status, Message: msg, Err: err}
}

// RetryAfter returns the delay requested by a Retry-After header, or zero.
func RetryAfter(err error) time.Duration {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs, convErr := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if convErr != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func statusOf(err error) int {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Status
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}
