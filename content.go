package pagecraft

import (
	"context"
	"fmt"
	"net/url"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pagecraft/client-go/internal/api"
)

// ScrapeFormat selects an output representation of a scraped page.
type ScrapeFormat = api.ScrapeFormat

// Scrape output formats.
const (
	FormatMarkdown   = api.FormatMarkdown
	FormatHTML       = api.FormatHTML
	FormatText       = api.FormatText
	FormatLinks      = api.FormatLinks
	FormatScreenshot = api.FormatScreenshot
)

type (
	// ScrapeRequest is the payload for a single-page scrape.
	ScrapeRequest = api.ScrapeRequest
	// ScrapeResult is the outcome of a scrape.
	ScrapeResult = api.ScrapeResult
	// PageMetadata describes a scraped page.
	PageMetadata = api.PageMetadata
	// ExtractRequest asks for structured data from a page.
	ExtractRequest = api.ExtractRequest
	// ExtractResult holds extracted data.
	ExtractResult = api.ExtractResult
	// BatchScrapeRequest submits many pages at once.
	BatchScrapeRequest = api.BatchScrapeRequest
	// ScrapeBatch is an asynchronous scrape job.
	ScrapeBatch = api.BatchJob[ScrapeResult]
)

// JobStatus is the lifecycle state of a batch job.
type JobStatus = api.JobStatus

// Batch job states.
const (
	JobPending    = api.JobPending
	JobProcessing = api.JobProcessing
	JobCompleted  = api.JobCompleted
	JobFailed     = api.JobFailed
)

// Content scrapes pages and extracts structured data.
type Content interface {
	// Scrape fetches a single page in the requested formats.
	Scrape(ctx context.Context, req *ScrapeRequest, opts ...RequestOption) (*ScrapeResult, error)

	// Extract pulls structured data from a page using a prompt or a JSON schema.
	Extract(ctx context.Context, req *ExtractRequest, opts ...RequestOption) (*ExtractResult, error)

	// BatchScrape submits up to 100 URLs for asynchronous scraping.
	BatchScrape(ctx context.Context, req *BatchScrapeRequest, opts ...RequestOption) (*ScrapeBatch, error)

	// GetBatchScrape returns the progress and results of a batch.
	GetBatchScrape(ctx context.Context, id string, opts ...RequestOption) (*ScrapeBatch, error)

	// WaitForBatch polls a batch until it completes or fails.
	WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*ScrapeBatch, error)
}

type contentImpl struct {
	client *Client
}

func (s *contentImpl) Scrape(ctx context.Context, req *ScrapeRequest, opts ...RequestOption) (*ScrapeResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.Scrape(ctx, req, opts...)
}

func (s *contentImpl) Extract(ctx context.Context, req *ExtractRequest, opts ...RequestOption) (*ExtractResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.Extract(ctx, req, opts...)
}

func (s *contentImpl) BatchScrape(ctx context.Context, req *BatchScrapeRequest, opts ...RequestOption) (*ScrapeBatch, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.client.apiClient.BatchScrape(ctx, req, opts...)
}

func (s *contentImpl) GetBatchScrape(ctx context.Context, id string, opts ...RequestOption) (*ScrapeBatch, error) {
	if err := requireID(id, "id"); err != nil {
		return nil, err
	}
	return s.client.apiClient.GetBatchScrape(ctx, id, opts...)
}

// MarkdownContent returns the page as markdown. When the service returned
// only HTML, the HTML is converted locally.
func MarkdownContent(r *ScrapeResult) (string, error) {
	if r == nil {
		return "", nil
	}
	if r.Markdown != "" || r.HTML == "" {
		return r.Markdown, nil
	}

	converter := md.NewConverter(domainOf(r), true, nil)
	markdown, err := converter.ConvertString(r.HTML)
	if err != nil {
		return "", fmt.Errorf("convert html to markdown: %w", err)
	}
	return markdown, nil
}

// domainOf is the host used to resolve relative links.
func domainOf(r *ScrapeResult) string {
	raw := r.Metadata.SourceURL
	if raw == "" {
		raw = r.URL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func (s *contentImpl) WaitForBatch(ctx context.Context, id string, opts ...WaitOption) (*ScrapeBatch, error) {
	return waitForBatch(ctx, s.client, id, func(ctx context.Context, id string) (*ScrapeBatch, error) {
		return s.client.apiClient.GetBatchScrape(ctx, id)
	}, opts)
}
