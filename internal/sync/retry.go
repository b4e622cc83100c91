package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/inovacc/boardsync/internal/tracker"
)

// RetryPolicy bounds how remote calls are retried. Transient tracker
// failures back off exponentially; rate-limit errors wait for the
// reported reset time before the next attempt. Non-retryable errors
// fail immediately.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is the policy the engine uses unless configured
// otherwise.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// NoRetry disables retries entirely; every failure surfaces on the
// first attempt. Used by tests and by callers that schedule their own
// re-invocation.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 0}
}

// Do runs op under the policy. The context bounds the total wait,
// including rate-limit sleeps.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, op func() error) error {
	if logger == nil {
		logger = slog.Default()
	}

	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}

	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}

		if reset, ok := tracker.ResetTime(err); ok {
			wait := time.Until(reset) + time.Second
			if wait > 0 {
				logger.Warn("rate limited, waiting",
					slog.Duration("wait", wait),
				)

				select {
				case <-ctx.Done():
					return backoff.Permanent(ctx.Err())
				case <-time.After(wait):
				}
			}

			return err
		}

		if !tracker.Retryable(err) {
			return backoff.Permanent(err)
		}

		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, p.MaxRetries), ctx))
}
