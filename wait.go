package pagecraft

import (
	"context"
	"fmt"
	"time"

	"github.com/pagecraft/client-go/internal/api"
	"github.com/pagecraft/client-go/internal/apierrors"
	"github.com/pagecraft/client-go/internal/poll"
)

// BatchJob is an asynchronous batch of scrape, PDF or screenshot work.
type BatchJob[T any] = api.BatchJob[T]

type waitConfig struct {
	interval    time.Duration
	maxInterval time.Duration
	timeout     time.Duration
}

// WaitOption configures WaitForBatch.
type WaitOption func(*waitConfig)

// WithPollInterval sets the initial delay between status checks.
// Default: 2 seconds
func WithPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.interval = d
	}
}

// WithMaxPollInterval caps the delay between status checks, which grows
// while a batch makes no progress. Default: 30 seconds
func WithMaxPollInterval(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.maxInterval = d
	}
}

// WithWaitTimeout bounds the total time spent waiting.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = d
	}
}

// waitForBatch polls get until the batch completes or fails. Transient
// errors are polled through; any other error ends the wait.
func waitForBatch[T any](ctx context.Context, c *Client, id string, get func(context.Context, string) (*BatchJob[T], error), opts []WaitOption) (*BatchJob[T], error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}

	var cfg waitConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	logger := c.logger.With().Str("batch", id).Logger()
	job, err := poll.Until(ctx, poll.Config{
		Interval:    cfg.interval,
		MaxInterval: cfg.maxInterval,
		Retryable:   apierrors.IsRetryable,
		OnPoll: func(attempt int, err error) {
			logger.Debug().Int("poll", attempt).Err(err).Msg("checked batch status")
		},
	},
		func(ctx context.Context) (*BatchJob[T], error) { return get(ctx, id) },
		func(j *BatchJob[T]) bool { return j.Done() },
		func(j *BatchJob[T]) int { return j.Completed + j.Failed },
	)
	if err != nil {
		return nil, fmt.Errorf("wait for batch %s: %w", id, err)
	}
	return job, nil
}
