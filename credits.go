package pagecraft

import (
	"context"

	"github.com/pagecraft/client-go/internal/api"
)

type (
	// CreditBalance is the account's current balance.
	CreditBalance = api.CreditBalance
	// CreditUsageOptions filters the credit ledger.
	CreditUsageOptions = api.CreditUsageOptions
	// CreditUsage is credit consumption over a period.
	CreditUsage = api.CreditUsage
	// CreditUsageEntry is one ledger row.
	CreditUsageEntry = api.CreditUsageEntry
	// CreditSummary condenses the current billing period.
	CreditSummary = api.CreditSummary
	// FeatureUsage is the credit total of one feature.
	FeatureUsage = api.FeatureUsage
)

// Credits reports the account's credit balance and consumption.
type Credits interface {
	Balance(ctx context.Context, opts ...RequestOption) (*CreditBalance, error)

	// Usage returns consumption, optionally filtered. filter may be nil.
	Usage(ctx context.Context, filter *CreditUsageOptions, opts ...RequestOption) (*CreditUsage, error)

	Summary(ctx context.Context, opts ...RequestOption) (*CreditSummary, error)
}

type creditsImpl struct {
	client *Client
}

func (s *creditsImpl) Balance(ctx context.Context, opts ...RequestOption) (*CreditBalance, error) {
	return s.client.apiClient.GetCreditBalance(ctx, opts...)
}

func (s *creditsImpl) Usage(ctx context.Context, filter *CreditUsageOptions, opts ...RequestOption) (*CreditUsage, error) {
	if filter != nil {
		if err := validateRequest(filter); err != nil {
			return nil, err
		}
	}
	return s.client.apiClient.GetCreditUsage(ctx, filter, opts...)
}

func (s *creditsImpl) Summary(ctx context.Context, opts ...RequestOption) (*CreditSummary, error) {
	return s.client.apiClient.GetCreditSummary(ctx, opts...)
}
