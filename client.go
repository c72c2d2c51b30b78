package pagecraft

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pagecraft/client-go/internal/api"
	"github.com/pagecraft/client-go/internal/apierrors"
)

// Version is the library version sent in the User-Agent header.
const Version = api.Version

// Client is the entry point to the PageCraft API. A Client is safe for
// concurrent use; every feature accessor shares its request engine.
type Client struct {
	apiClient *api.Client
	logger    zerolog.Logger
}

// New creates a client for apiKey.
//
// An empty key is rejected with a *ValidationError. A key that does not look
// like a PageCraft key ("pc_" prefix) is accepted with a logged warning.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		retries: defaultRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := defaultLogger()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	if apiKey == "" {
		return nil, apierrors.NewValidationError("API key is required", "apiKey")
	}
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		logger.Warn().Msgf("API key does not start with %q and may be invalid", apiKeyPrefix)
	}

	apiClient, err := api.New(apiKey, cfg.apiOptions(logger)...)
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient, logger: logger}, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Content returns the scraping and extraction API.
func (c *Client) Content() Content {
	return &contentImpl{client: c}
}

// PDF returns the PDF rendering API.
func (c *Client) PDF() PDF {
	return &pdfImpl{client: c}
}

// Screenshot returns the screenshot API.
func (c *Client) Screenshot() Screenshot {
	return &screenshotImpl{client: c}
}

// Schedule returns the scheduled jobs API.
func (c *Client) Schedule() Schedules {
	return &scheduleImpl{client: c}
}

// Monitoring returns the change monitoring API.
func (c *Client) Monitoring() Monitoring {
	return &monitoringImpl{client: c}
}

// Credits returns the credit accounting API.
func (c *Client) Credits() Credits {
	return &creditsImpl{client: c}
}

// Research returns the deep research API.
func (c *Client) Research() Research {
	return &researchImpl{client: c}
}

// Usage returns the usage reporting API.
func (c *Client) Usage() Usage {
	return &usageImpl{client: c}
}

// Ping verifies that the API is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	return c.apiClient.Ping(ctx)
}

// ScrapeURL scrapes a page as markdown with default options.
func (c *Client) ScrapeURL(ctx context.Context, url string, opts ...RequestOption) (*ScrapeResult, error) {
	return c.Content().Scrape(ctx, &ScrapeRequest{
		URL:     url,
		Formats: []ScrapeFormat{FormatMarkdown},
	}, opts...)
}

// ScreenshotURL captures a full-page PNG of url.
func (c *Client) ScreenshotURL(ctx context.Context, url string, opts ...RequestOption) (*ScreenshotResult, error) {
	return c.Screenshot().Capture(ctx, &ScreenshotRequest{
		URL:      url,
		FullPage: true,
		Format:   "png",
	}, opts...)
}

// AccountOverview combines the account's balance, period summary and usage.
type AccountOverview struct {
	Balance *CreditBalance `json:"balance"`
	Summary *CreditSummary `json:"summary"`
	Usage   *UsageReport   `json:"usage"`
}

// Overview fetches balance, credit summary and usage concurrently. The first
// failure cancels the remaining calls and is returned.
func (c *Client) Overview(ctx context.Context) (*AccountOverview, error) {
	var out AccountOverview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := c.Credits().Balance(ctx)
		out.Balance = balance
		return err
	})
	g.Go(func() error {
		summary, err := c.Credits().Summary(ctx)
		out.Summary = summary
		return err
	})
	g.Go(func() error {
		usage, err := c.Usage().Get(ctx, nil)
		out.Usage = usage
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
