// Package poll repeatedly fetches a resource until it reaches a final state,
// backing off while nothing changes.
//
// Intervals grow by BackoffMultiplier after each unchanged poll, are capped at
// the configured maximum and reset to the initial interval whenever the
// resource reports progress. A random jitter of up to JitterFactor of the
// interval is added to every wait so concurrent waiters do not align.
package poll

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	// DefaultInterval is the first wait when Config.Interval is unset.
	DefaultInterval = 2 * time.Second
	// DefaultMaxBackoff caps the wait when Config.MaxInterval is unset.
	DefaultMaxBackoff = 30 * time.Second
	// BackoffMultiplier grows the interval after each poll without progress.
	BackoffMultiplier = 1.5
	// JitterFactor is the largest random fraction of the interval added to a wait.
	JitterFactor = 0.3
)

// Config controls a polling loop. The zero value uses the defaults above and
// treats every fetch error as final.
type Config struct {
	// Interval is the wait after the first unfinished poll.
	Interval time.Duration

	// MaxInterval caps the grown interval.
	MaxInterval time.Duration

	// Retryable reports whether a fetch error should be ignored and polled
	// again. Nil means errors end the loop.
	Retryable func(error) bool

	// OnPoll, when set, observes every fetch attempt number and its error.
	OnPoll func(attempt int, err error)
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = DefaultMaxBackoff
	}
	if c.MaxInterval < c.Interval {
		c.MaxInterval = c.Interval
	}
	return c
}

// Until calls fetch until done reports true, returning the final value.
// progress returns a value that changes whenever the resource advances; a
// change resets the backoff. Cancelling ctx stops the loop with ctx.Err().
func Until[T any](ctx context.Context, cfg Config, fetch func(context.Context) (T, error), done func(T) bool, progress func(T) int) (T, error) {
	cfg = cfg.withDefaults()

	var (
		zero     T
		interval = cfg.Interval
		last     = -1
	)

	for attempt := 0; ; attempt++ {
		value, err := fetch(ctx)
		if cfg.OnPoll != nil {
			cfg.OnPoll(attempt, err)
		}

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}
			if cfg.Retryable == nil || !cfg.Retryable(err) {
				return zero, err
			}
		case done(value):
			return value, nil
		default:
			if p := progress(value); p != last {
				last = p
				interval = cfg.Interval
			}
		}

		wait := interval + jitter(interval)
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}

		interval = nextInterval(interval, cfg.MaxInterval)
	}
}

func nextInterval(current, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * BackoffMultiplier)
	if next > max {
		return max
	}
	return next
}

func jitter(d time.Duration) time.Duration {
	return time.Duration(rand.Float64() * JitterFactor * float64(d))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
