package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Endpoint paths, relative to the base URL.
const (
	pathScrape          = "/scrape"
	pathExtract         = "/extract"
	pathScrapeBatch     = "/scrape/batch"
	pathPDF             = "/pdf"
	pathPDFBatch        = "/pdf/batch"
	pathScreenshot      = "/screenshot"
	pathScreenshotElem  = "/screenshot/element"
	pathScreenshotBatch = "/screenshot/batch"
	pathSchedule        = "/schedule"
	pathMonitoring      = "/monitoring"
	pathChannels        = "/monitoring/channels"
	pathCredits         = "/credits"
	pathCreditsUsage    = "/credits/usage"
	pathCreditsSummary  = "/credits/summary"
	pathResearch        = "/deep-research/sessions"
	pathUsage           = "/usage"
)

func itemPath(base, id string, sub ...string) string {
	p := fmt.Sprintf("%s/%s", base, url.PathEscape(id))
	for _, s := range sub {
		p += "/" + s
	}
	return p
}

// ---- content ----

// Scrape fetches a single page.
func (c *Client) Scrape(ctx context.Context, req *ScrapeRequest, opts ...RequestOption) (*ScrapeResult, error) {
	var result ScrapeResult
	if err := c.Post(ctx, pathScrape, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// Extract pulls structured data from a page.
func (c *Client) Extract(ctx context.Context, req *ExtractRequest, opts ...RequestOption) (*ExtractResult, error) {
	var result ExtractResult
	if err := c.Post(ctx, pathExtract, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchScrape submits an asynchronous scrape batch.
func (c *Client) BatchScrape(ctx context.Context, req *BatchScrapeRequest, opts ...RequestOption) (*BatchJob[ScrapeResult], error) {
	var result BatchJob[ScrapeResult]
	if err := c.Post(ctx, pathScrapeBatch, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBatchScrape returns the state of a scrape batch.
func (c *Client) GetBatchScrape(ctx context.Context, id string, opts ...RequestOption) (*BatchJob[ScrapeResult], error) {
	var result BatchJob[ScrapeResult]
	if err := c.Get(ctx, itemPath(pathScrapeBatch, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- pdf ----

// GeneratePDF renders one document.
func (c *Client) GeneratePDF(ctx context.Context, req *PDFRequest, opts ...RequestOption) (*PDFResult, error) {
	var result PDFResult
	if err := c.Post(ctx, pathPDF, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchPDF submits an asynchronous PDF batch.
func (c *Client) BatchPDF(ctx context.Context, req *PDFBatchRequest, opts ...RequestOption) (*BatchJob[PDFResult], error) {
	var result BatchJob[PDFResult]
	if err := c.Post(ctx, pathPDFBatch, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPDFBatch returns the state of a PDF batch.
func (c *Client) GetPDFBatch(ctx context.Context, id string, opts ...RequestOption) (*BatchJob[PDFResult], error) {
	var result BatchJob[PDFResult]
	if err := c.Get(ctx, itemPath(pathPDFBatch, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- screenshot ----

// CaptureScreenshot captures one page.
func (c *Client) CaptureScreenshot(ctx context.Context, req *ScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error) {
	var result ScreenshotResult
	if err := c.Post(ctx, pathScreenshot, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// CaptureElement captures a single element of a page.
func (c *Client) CaptureElement(ctx context.Context, req *ElementScreenshotRequest, opts ...RequestOption) (*ScreenshotResult, error) {
	var result ScreenshotResult
	if err := c.Post(ctx, pathScreenshotElem, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchScreenshot submits an asynchronous screenshot batch.
func (c *Client) BatchScreenshot(ctx context.Context, req *ScreenshotBatchRequest, opts ...RequestOption) (*BatchJob[ScreenshotResult], error) {
	var result BatchJob[ScreenshotResult]
	if err := c.Post(ctx, pathScreenshotBatch, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetScreenshotBatch returns the state of a screenshot batch.
func (c *Client) GetScreenshotBatch(ctx context.Context, id string, opts ...RequestOption) (*BatchJob[ScreenshotResult], error) {
	var result BatchJob[ScreenshotResult]
	if err := c.Get(ctx, itemPath(pathScreenshotBatch, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- schedule ----

// CreateSchedule registers a recurring job.
func (c *Client) CreateSchedule(ctx context.Context, req *CreateScheduleRequest, opts ...RequestOption) (*Schedule, error) {
	var result Schedule
	if err := c.Post(ctx, pathSchedule, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListSchedules returns a page of schedules.
func (c *Client) ListSchedules(ctx context.Context, list *ListOptions, opts ...RequestOption) (*Page[Schedule], error) {
	var result Page[Schedule]
	opts = append(opts[:len(opts):len(opts)], WithQuery(list.Values()))
	if err := c.Get(ctx, pathSchedule, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetSchedule returns one schedule.
func (c *Client) GetSchedule(ctx context.Context, id string, opts ...RequestOption) (*Schedule, error) {
	var result Schedule
	if err := c.Get(ctx, itemPath(pathSchedule, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateSchedule patches a schedule.
func (c *Client) UpdateSchedule(ctx context.Context, id string, req *UpdateScheduleRequest, opts ...RequestOption) (*Schedule, error) {
	var result Schedule
	if err := c.Patch(ctx, itemPath(pathSchedule, id), req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string, opts ...RequestOption) error {
	return c.Delete(ctx, itemPath(pathSchedule, id), nil, opts...)
}

// ---- monitoring ----

// CreateMonitor starts watching a page.
func (c *Client) CreateMonitor(ctx context.Context, req *CreateMonitorRequest, opts ...RequestOption) (*Monitor, error) {
	var result Monitor
	if err := c.Post(ctx, pathMonitoring, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMonitors returns a page of monitors.
func (c *Client) ListMonitors(ctx context.Context, list *ListOptions, opts ...RequestOption) (*Page[Monitor], error) {
	var result Page[Monitor]
	opts = append(opts[:len(opts):len(opts)], WithQuery(list.Values()))
	if err := c.Get(ctx, pathMonitoring, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMonitor returns one monitor.
func (c *Client) GetMonitor(ctx context.Context, id string, opts ...RequestOption) (*Monitor, error) {
	var result Monitor
	if err := c.Get(ctx, itemPath(pathMonitoring, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMonitor patches a monitor.
func (c *Client) UpdateMonitor(ctx context.Context, id string, req *UpdateMonitorRequest, opts ...RequestOption) (*Monitor, error) {
	var result Monitor
	if err := c.Patch(ctx, itemPath(pathMonitoring, id), req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteMonitor removes a monitor.
func (c *Client) DeleteMonitor(ctx context.Context, id string, opts ...RequestOption) error {
	return c.Delete(ctx, itemPath(pathMonitoring, id), nil, opts...)
}

// SetMonitorState pauses or resumes a monitor. action is "pause" or "resume".
func (c *Client) SetMonitorState(ctx context.Context, id, action string, opts ...RequestOption) (*Monitor, error) {
	var result Monitor
	if err := c.Post(ctx, itemPath(pathMonitoring, id, action), nil, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckMonitorNow runs a comparison immediately.
func (c *Client) CheckMonitorNow(ctx context.Context, id string, opts ...RequestOption) (*MonitorCheck, error) {
	var result MonitorCheck
	if err := c.Post(ctx, itemPath(pathMonitoring, id, "check-now"), nil, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMonitorChecks returns a page of a monitor's checks.
func (c *Client) ListMonitorChecks(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*Page[MonitorCheck], error) {
	var result Page[MonitorCheck]
	opts = append(opts[:len(opts):len(opts)], WithQuery(list.Values()))
	if err := c.Get(ctx, itemPath(pathMonitoring, id, "checks"), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListMonitorAlerts returns a page of a monitor's alerts.
func (c *Client) ListMonitorAlerts(ctx context.Context, id string, list *ListOptions, opts ...RequestOption) (*Page[MonitorAlert], error) {
	var result Page[MonitorAlert]
	opts = append(opts[:len(opts):len(opts)], WithQuery(list.Values()))
	if err := c.Get(ctx, itemPath(pathMonitoring, id, "alerts"), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListChannels returns all notification channels.
func (c *Client) ListChannels(ctx context.Context, opts ...RequestOption) ([]NotificationChannel, error) {
	var result []NotificationChannel
	if err := c.Get(ctx, pathChannels, &result, opts...); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateChannel registers a notification channel.
func (c *Client) CreateChannel(ctx context.Context, req *CreateChannelRequest, opts ...RequestOption) (*NotificationChannel, error) {
	var result NotificationChannel
	if err := c.Post(ctx, pathChannels, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteChannel removes a notification channel.
func (c *Client) DeleteChannel(ctx context.Context, id string, opts ...RequestOption) error {
	return c.Delete(ctx, itemPath(pathChannels, id), nil, opts...)
}

// ---- credits ----

// GetCreditBalance returns the current balance.
func (c *Client) GetCreditBalance(ctx context.Context, opts ...RequestOption) (*CreditBalance, error) {
	var result CreditBalance
	if err := c.Get(ctx, pathCredits, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCreditUsage returns credit consumption.
func (c *Client) GetCreditUsage(ctx context.Context, filter *CreditUsageOptions, opts ...RequestOption) (*CreditUsage, error) {
	var result CreditUsage
	opts = append(opts[:len(opts):len(opts)], WithQuery(filter.Values()))
	if err := c.Get(ctx, pathCreditsUsage, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCreditSummary returns the current period summary.
func (c *Client) GetCreditSummary(ctx context.Context, opts ...RequestOption) (*CreditSummary, error) {
	var result CreditSummary
	if err := c.Get(ctx, pathCreditsSummary, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- research ----

// CreateResearchSession opens a session.
func (c *Client) CreateResearchSession(ctx context.Context, req *CreateResearchSessionRequest, opts ...RequestOption) (*ResearchSession, error) {
	var result ResearchSession
	if err := c.Post(ctx, pathResearch, req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResearchSessions returns a page of sessions.
func (c *Client) ListResearchSessions(ctx context.Context, list *ListOptions, opts ...RequestOption) (*Page[ResearchSession], error) {
	var result Page[ResearchSession]
	opts = append(opts[:len(opts):len(opts)], WithQuery(list.Values()))
	if err := c.Get(ctx, pathResearch, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResearchSession returns one session.
func (c *Client) GetResearchSession(ctx context.Context, id string, opts ...RequestOption) (*ResearchSession, error) {
	var result ResearchSession
	if err := c.Get(ctx, itemPath(pathResearch, id), &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteResearchSession removes a session and its items.
func (c *Client) DeleteResearchSession(ctx context.Context, id string, opts ...RequestOption) error {
	return c.Delete(ctx, itemPath(pathResearch, id), nil, opts...)
}

// AddResearchItem adds a source to a session.
func (c *Client) AddResearchItem(ctx context.Context, sessionID string, req *AddResearchItemRequest, opts ...RequestOption) (*ResearchItem, error) {
	var result ResearchItem
	if err := c.Post(ctx, itemPath(pathResearch, sessionID, "items"), req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResearchItems returns every item of a session.
func (c *Client) ListResearchItems(ctx context.Context, sessionID string, opts ...RequestOption) ([]ResearchItem, error) {
	var result []ResearchItem
	if err := c.Get(ctx, itemPath(pathResearch, sessionID, "items"), &result, opts...); err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveResearchItem deletes an item from a session.
func (c *Client) RemoveResearchItem(ctx context.Context, sessionID, itemID string, opts ...RequestOption) error {
	path := itemPath(pathResearch, sessionID, "items", url.PathEscape(itemID))
	return c.Delete(ctx, path, nil, opts...)
}

// ResearchChat sends a chat message to a session.
func (c *Client) ResearchChat(ctx context.Context, sessionID string, req *ResearchChatRequest, opts ...RequestOption) (*ResearchChatResponse, error) {
	var result ResearchChatResponse
	if err := c.Post(ctx, itemPath(pathResearch, sessionID, "chat"), req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeResearch runs an analysis across a session.
func (c *Client) AnalyzeResearch(ctx context.Context, sessionID string, req *ResearchAnalyzeRequest, opts ...RequestOption) (*ResearchAnalysis, error) {
	var result ResearchAnalysis
	if err := c.Post(ctx, itemPath(pathResearch, sessionID, "analyze"), req, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// ---- usage ----

// GetUsage returns the usage report.
func (c *Client) GetUsage(ctx context.Context, filter *UsageOptions, opts ...RequestOption) (*UsageReport, error) {
	var result UsageReport
	opts = append(opts[:len(opts):len(opts)], WithQuery(filter.Values()))
	if err := c.Get(ctx, pathUsage, &result, opts...); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping issues a cheap authenticated request, useful for checking a key.
func (c *Client) Ping(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, pathCredits, nil, nil)
}
