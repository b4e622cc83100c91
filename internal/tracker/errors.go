package tracker

import (
	"errors"
	"fmt"
	"time"
)

// APIError indicates a remote tracker call failed. Code is a
// machine-readable classification; Retryable reports whether the caller
// may retry after a backoff.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Retryable  bool
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tracker API error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}

	return fmt.Sprintf("tracker API error (%s): %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the tracker rejected a call because the
// request quota is exhausted. ResetAt is when the quota refills;
// callers re-invoke after it passes.
type RateLimitError struct {
	ResetAt time.Time
	Err     error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// Retryable reports whether err is a transient tracker failure worth
// retrying. Rate-limit errors are always retryable once the reset time
// has passed.
func Retryable(err error) bool {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}

	return false
}

// ResetTime extracts the rate-limit reset time from err, if present.
func ResetTime(err error) (time.Time, bool) {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return rateErr.ResetAt, true
	}

	return time.Time{}, false
}
