package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	// ErrThrottleMustNotBeZero is returned by newThrottle for a non-positive rate or burst.
	ErrThrottleMustNotBeZero = errors.New("must be greater than zero")

	// ErrThrottleWaitFailed wraps a failed token wait. When the request has a
	// deadline the token could not arrive before, context.DeadlineExceeded is
	// wrapped as well.
	ErrThrottleWaitFailed = errors.New("limiter waiting failed")
)

// throttle is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict outbound calls.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logger  zerolog.Logger
}

func newThrottle(rps, burst int, logger zerolog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("throttle rps[%d] and burst[%d] %w", rps, burst, ErrThrottleMustNotBeZero)
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		next:    next,
		logger:  logger,
	}, nil
}

// RoundTrip waits for a token, bounded by the request context, and then
// hands the request to the next transport. The wait counts against the
// attempt's timeout.
func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if !t.limiter.Allow() {
		start := time.Now()
		t.logger.Debug().Int("rate", t.rps).Int("burst", t.burst).Str("path", r.URL.Path).
			Msg("throttle tokens exhausted")

		if err := t.limiter.Wait(ctx); err != nil {
			// rate.Limiter fails early when the token would arrive after the deadline.
			if _, ok := ctx.Deadline(); ok && !errors.Is(err, context.Canceled) {
				return nil, fmt.Errorf("%w: %w: %w", ErrThrottleWaitFailed, context.DeadlineExceeded, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrThrottleWaitFailed, err)
		}

		t.logger.Debug().Dur("waited", time.Since(start)).Msg("throttle wait complete")
	}

	return t.next.RoundTrip(r)
}
