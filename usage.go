package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
	"github.com/pagecraft/client-go/internal/apierrors"
)

type (
	// UsageOptions filters the usage report.
	UsageOptions = api.UsageOptions
	// UsageReport summarises API usage.
	UsageReport = api.UsageReport
	// UsageBucket is one row of a grouped report.
	UsageBucket = api.UsageBucket
)

// Usage reports request and credit volume.
type Usage interface {
	// Get returns the usage report. filter may be nil.
	Get(ctx context.Context, filter *UsageOptions, opts ...RequestOption) (*UsageReport, error)
}

type usageImpl struct {
	client *Client
}

func (s *usageImpl) Get(ctx context.Context, filter *UsageOptions, opts ...RequestOption) (*UsageReport, error) {
	if filter != nil {
		if err := validateRequest(filter); err != nil {
			return nil, err
		}
		if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
			return nil, apierrors.NewValidationError("to must not be before from", "to")
		}
	}
	return s.client.apiClient.GetUsage(ctx, filter, opts...)
}
