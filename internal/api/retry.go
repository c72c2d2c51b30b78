package api

import (
	"context"
	"time"
)

// RetryConfig configures retry behavior for failed HTTP requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first try.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay between retry attempts.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultRetryDelay,
		MaxDelay:   DefaultMaxRetryDelay,
	}
}

// Attempts returns the total number of tries, the first one included.
func (r *RetryConfig) Attempts() int {
	if r.MaxRetries < 0 {
		return 1
	}
	return r.MaxRetries + 1
}

// HasNext reports whether another attempt is permitted after attempt (0-indexed).
func (r *RetryConfig) HasNext(attempt int) bool {
	return attempt < r.MaxRetries
}

// Delay returns the wait before the retry that follows attempt (0-indexed):
// BaseDelay * 2^attempt, capped at MaxDelay.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := r.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= r.MaxDelay {
			return r.MaxDelay
		}
	}
	if delay > r.MaxDelay {
		return r.MaxDelay
	}
	return delay
}

// sleepContext blocks the calling goroutine only; other calls keep running.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
