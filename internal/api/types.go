package api

import (
	"net/url"
	"strconv"
	"time"
)

// JobStatus is the lifecycle state of an asynchronous batch job.
type JobStatus string

// Batch job states.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// BatchJob is an asynchronous batch of scrape, PDF or screenshot work.
type BatchJob[T any] struct {
	ID          string    `json:"id"`
	Status      JobStatus `json:"status"`
	Total       int       `json:"total"`
	Completed   int       `json:"completed"`
	Failed      int       `json:"failed"`
	Results     []T       `json:"results,omitempty"`
	CreditsUsed int       `json:"creditsUsed,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Done reports whether the job has finished, successfully or not.
func (j *BatchJob[T]) Done() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// ListOptions selects a page of a list endpoint.
type ListOptions struct {
	Page  int `json:"page,omitempty" validate:"gte=0"`
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// Values encodes the options as a query string. Zero fields are omitted.
func (o *ListOptions) Values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// ---- content ----

// ScrapeFormat selects an output representation of a scraped page.
type ScrapeFormat string

// Scrape output formats.
const (
	FormatMarkdown   ScrapeFormat = "markdown"
	FormatHTML       ScrapeFormat = "html"
	FormatText       ScrapeFormat = "text"
	FormatLinks      ScrapeFormat = "links"
	FormatScreenshot ScrapeFormat = "screenshot"
)

// ScrapeRequest is the payload for a single-page scrape.
type ScrapeRequest struct {
	URL             string            `json:"url" validate:"required,url"`
	Formats         []ScrapeFormat    `json:"formats,omitempty" validate:"omitempty,dive,oneof=markdown html text links screenshot"`
	OnlyMainContent bool              `json:"onlyMainContent,omitempty"`
	IncludeTags     []string          `json:"includeTags,omitempty"`
	ExcludeTags     []string          `json:"excludeTags,omitempty"`
	WaitFor         int               `json:"waitFor,omitempty" validate:"gte=0,lte=60000"`
	Headers         map[string]string `json:"headers,omitempty"`
	Mobile          bool              `json:"mobile,omitempty"`
}

// PageMetadata describes a scraped page.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Language    string `json:"language,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
}

// ScrapeResult is the outcome of a scrape.
type ScrapeResult struct {
	URL         string       `json:"url"`
	Markdown    string       `json:"markdown,omitempty"`
	HTML        string       `json:"html,omitempty"`
	Text        string       `json:"text,omitempty"`
	Links       []string     `json:"links,omitempty"`
	Screenshot  string       `json:"screenshot,omitempty"`
	Metadata    PageMetadata `json:"metadata"`
	CreditsUsed int          `json:"creditsUsed,omitempty"`
}

// ExtractRequest asks the service to pull structured data from a page.
// Either Prompt or Schema must be set.
type ExtractRequest struct {
	URL    string         `json:"url" validate:"required,url"`
	Prompt string         `json:"prompt,omitempty" validate:"required_without=Schema"`
	Schema map[string]any `json:"schema,omitempty"`
}

// ExtractResult holds extracted data.
type ExtractResult struct {
	URL         string         `json:"url"`
	Data        map[string]any `json:"data"`
	CreditsUsed int            `json:"creditsUsed,omitempty"`
}

// BatchScrapeRequest submits many pages for asynchronous scraping.
type BatchScrapeRequest struct {
	URLs            []string       `json:"urls" validate:"required,min=1,max=100,dive,url"`
	Formats         []ScrapeFormat `json:"formats,omitempty" validate:"omitempty,dive,oneof=markdown html text links screenshot"`
	OnlyMainContent bool           `json:"onlyMainContent,omitempty"`
	WebhookURL      string         `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// ---- pdf ----

// PDFMargin is a page margin in CSS units, e.g. "1cm".
type PDFMargin struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

// PDFRequest renders a URL or raw HTML to PDF. Exactly one source is expected.
type PDFRequest struct {
	URL             string     `json:"url,omitempty" validate:"required_without=HTML,omitempty,url"`
	HTML            string     `json:"html,omitempty"`
	Format          string     `json:"format,omitempty" validate:"omitempty,oneof=A3 A4 A5 Letter Legal"`
	Landscape       bool       `json:"landscape,omitempty"`
	PrintBackground bool       `json:"printBackground,omitempty"`
	Margin          *PDFMargin `json:"margin,omitempty"`
	HeaderTemplate  string     `json:"headerTemplate,omitempty"`
	FooterTemplate  string     `json:"footerTemplate,omitempty"`
}

// PDFResult points at a rendered document.
type PDFResult struct {
	URL         string    `json:"url"`
	Pages       int       `json:"pages"`
	Size        int64     `json:"size"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreditsUsed int       `json:"creditsUsed,omitempty"`
}

// PDFBatchRequest renders several documents asynchronously.
type PDFBatchRequest struct {
	Items      []PDFRequest `json:"items" validate:"required,min=1,max=50,dive"`
	WebhookURL string       `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// ---- screenshot ----

// ScreenshotRequest captures a page.
type ScreenshotRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Width    int    `json:"width,omitempty" validate:"omitempty,min=1,max=7680"`
	Height   int    `json:"height,omitempty" validate:"omitempty,min=1,max=4320"`
	FullPage bool   `json:"fullPage,omitempty"`
	Format   string `json:"format,omitempty" validate:"omitempty,oneof=png jpeg webp"`
	Quality  int    `json:"quality,omitempty" validate:"omitempty,min=1,max=100"`
	Delay    int    `json:"delay,omitempty" validate:"gte=0,lte=30000"`
}

// ElementScreenshotRequest captures the first element matching Selector.
type ElementScreenshotRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Selector string `json:"selector" validate:"required"`
	Format   string `json:"format,omitempty" validate:"omitempty,oneof=png jpeg webp"`
}

// ScreenshotResult points at a captured image.
type ScreenshotResult struct {
	URL         string    `json:"url"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Format      string    `json:"format"`
	Size        int64     `json:"size"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreditsUsed int       `json:"creditsUsed,omitempty"`
}

// ScreenshotBatchRequest captures several pages asynchronously.
type ScreenshotBatchRequest struct {
	Items      []ScreenshotRequest `json:"items" validate:"required,min=1,max=50,dive"`
	WebhookURL string              `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// ---- schedule ----

// CreateScheduleRequest registers a recurring job.
type CreateScheduleRequest struct {
	Name       string         `json:"name" validate:"required,max=200"`
	Type       string         `json:"type" validate:"required,oneof=scrape pdf screenshot"`
	Cron       string         `json:"cron" validate:"required"`
	Timezone   string         `json:"timezone,omitempty"`
	Payload    map[string]any `json:"payload" validate:"required"`
	WebhookURL string         `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// UpdateScheduleRequest changes a schedule. Nil fields are left unchanged.
type UpdateScheduleRequest struct {
	Name       *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Cron       *string        `json:"cron,omitempty" validate:"omitempty,min=1"`
	Timezone   *string        `json:"timezone,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Enabled    *bool          `json:"enabled,omitempty"`
	WebhookURL *string        `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// Schedule is a recurring job.
type Schedule struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Cron       string         `json:"cron"`
	Timezone   string         `json:"timezone,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Enabled    bool           `json:"enabled"`
	WebhookURL string         `json:"webhookUrl,omitempty"`
	NextRunAt  *time.Time     `json:"nextRunAt,omitempty"`
	LastRunAt  *time.Time     `json:"lastRunAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// ---- monitoring ----

// MonitorStatus is the state of a change monitor.
type MonitorStatus string

// Monitor states.
const (
	MonitorActive MonitorStatus = "active"
	MonitorPaused MonitorStatus = "paused"
)

// CreateMonitorRequest starts watching a page for changes.
type CreateMonitorRequest struct {
	URL             string   `json:"url" validate:"required,url"`
	Name            string   `json:"name,omitempty" validate:"max=200"`
	IntervalMinutes int      `json:"intervalMinutes" validate:"required,min=5"`
	Selector        string   `json:"selector,omitempty"`
	Threshold       float64  `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	Channels        []string `json:"channels,omitempty"`
}

// UpdateMonitorRequest changes a monitor. Nil fields are left unchanged.
type UpdateMonitorRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	IntervalMinutes *int     `json:"intervalMinutes,omitempty" validate:"omitempty,min=5"`
	Selector        *string  `json:"selector,omitempty"`
	Threshold       *float64 `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	Channels        []string `json:"channels,omitempty"`
}

// Monitor watches a page for changes.
type Monitor struct {
	ID              string        `json:"id"`
	URL             string        `json:"url"`
	Name            string        `json:"name,omitempty"`
	IntervalMinutes int           `json:"intervalMinutes"`
	Selector        string        `json:"selector,omitempty"`
	Threshold       float64       `json:"threshold,omitempty"`
	Channels        []string      `json:"channels,omitempty"`
	Status          MonitorStatus `json:"status"`
	LastCheckedAt   *time.Time    `json:"lastCheckedAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// MonitorCheck is one comparison run of a monitor.
type MonitorCheck struct {
	ID         string    `json:"id"`
	MonitorID  string    `json:"monitorId"`
	CheckedAt  time.Time `json:"checkedAt"`
	Changed    bool      `json:"changed"`
	Similarity float64   `json:"similarity"`
	Diff       string    `json:"diff,omitempty"`
}

// MonitorAlert is a notification sent for a detected change.
type MonitorAlert struct {
	ID        string    `json:"id"`
	MonitorID string    `json:"monitorId"`
	CheckID   string    `json:"checkId"`
	ChannelID string    `json:"channelId"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sentAt"`
}

// CreateChannelRequest registers a notification channel.
type CreateChannelRequest struct {
	Type   string `json:"type" validate:"required,oneof=email webhook slack"`
	Target string `json:"target" validate:"required"`
	Name   string `json:"name,omitempty"`
}

// NotificationChannel delivers monitor alerts.
type NotificationChannel struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Target    string    `json:"target"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ---- credits ----

// CreditBalance is the account's current balance.
type CreditBalance struct {
	Balance          int       `json:"balance"`
	Plan             string    `json:"plan,omitempty"`
	MonthlyAllowance int       `json:"monthlyAllowance,omitempty"`
	ResetsAt         time.Time `json:"resetsAt"`
}

// CreditUsageOptions filters the credit ledger.
type CreditUsageOptions struct {
	Period string    `json:"period,omitempty" validate:"omitempty,oneof=day week month"`
	From   time.Time `json:"from" validate:"-"`
	To     time.Time `json:"to" validate:"-"`
}

// Values encodes the options as a query string.
func (o *CreditUsageOptions) Values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Period != "" {
		q.Set("period", o.Period)
	}
	setTime(q, "from", o.From)
	setTime(q, "to", o.To)
	return q
}

// CreditUsageEntry is one ledger row.
type CreditUsageEntry struct {
	Date    string `json:"date"`
	Feature string `json:"feature"`
	Credits int    `json:"credits"`
}

// CreditUsage is credit consumption over a period.
type CreditUsage struct {
	Period    string             `json:"period"`
	Total     int                `json:"total"`
	ByFeature map[string]int     `json:"byFeature,omitempty"`
	Entries   []CreditUsageEntry `json:"entries,omitempty"`
}

// FeatureUsage is the credit total of a single feature.
type FeatureUsage struct {
	Feature string `json:"feature"`
	Credits int    `json:"credits"`
}

// CreditSummary condenses the current billing period.
type CreditSummary struct {
	Balance             int            `json:"balance"`
	UsedThisPeriod      int            `json:"usedThisPeriod"`
	RemainingThisPeriod int            `json:"remainingThisPeriod"`
	PeriodStart         time.Time      `json:"periodStart"`
	PeriodEnd           time.Time      `json:"periodEnd"`
	TopFeatures         []FeatureUsage `json:"topFeatures,omitempty"`
}

// ---- research ----

// CreateResearchSessionRequest opens a research session.
type CreateResearchSessionRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Query       string `json:"query,omitempty"`
}

// ResearchSession collects sources for conversational analysis.
type ResearchSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Query       string    `json:"query,omitempty"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"itemCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AddResearchItemRequest adds a source to a session, by URL or inline content.
type AddResearchItemRequest struct {
	URL     string `json:"url,omitempty" validate:"required_without=Content,omitempty,url"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// ResearchItem is a source inside a session.
type ResearchItem struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// ResearchChatRequest asks a question about a session's sources.
type ResearchChatRequest struct {
	Message        string `json:"message" validate:"required"`
	IncludeSources bool   `json:"includeSources,omitempty"`
}

// ResearchSource cites an item used in an answer.
type ResearchSource struct {
	ItemID  string `json:"itemId"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ResearchChatResponse is the answer to a chat message.
type ResearchChatResponse struct {
	Reply       string           `json:"reply"`
	Sources     []ResearchSource `json:"sources,omitempty"`
	CreditsUsed int              `json:"creditsUsed,omitempty"`
}

// ResearchAnalyzeRequest runs an analysis across a session.
type ResearchAnalyzeRequest struct {
	Type    string   `json:"type" validate:"required,oneof=summary comparison timeline insights"`
	Focus   string   `json:"focus,omitempty"`
	ItemIDs []string `json:"itemIds,omitempty"`
}

// ResearchAnalysis is the result of an analysis.
type ResearchAnalysis struct {
	Type        string           `json:"type"`
	Content     string           `json:"content"`
	KeyFindings []string         `json:"keyFindings,omitempty"`
	Sources     []ResearchSource `json:"sources,omitempty"`
	CreditsUsed int              `json:"creditsUsed,omitempty"`
}

// ---- usage ----

// UsageOptions filters the usage report.
type UsageOptions struct {
	From    time.Time `json:"from" validate:"-"`
	To      time.Time `json:"to" validate:"-"`
	Feature string    `json:"feature,omitempty" validate:"omitempty,oneof=scrape extract pdf screenshot schedule monitoring research"`
	GroupBy string    `json:"groupBy,omitempty" validate:"omitempty,oneof=day feature endpoint"`
}

// Values encodes the options as a query string.
func (o *UsageOptions) Values() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	setTime(q, "from", o.From)
	setTime(q, "to", o.To)
	if o.Feature != "" {
		q.Set("feature", o.Feature)
	}
	if o.GroupBy != "" {
		q.Set("groupBy", o.GroupBy)
	}
	return q
}

// UsageBucket is one row of a grouped usage report.
type UsageBucket struct {
	Key      string `json:"key"`
	Requests int    `json:"requests"`
	Credits  int    `json:"credits"`
}

// UsageReport summarises API usage.
type UsageReport struct {
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	TotalRequests int           `json:"totalRequests"`
	TotalCredits  int           `json:"totalCredits"`
	Breakdown     []UsageBucket `json:"breakdown,omitempty"`
}

func setTime(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, t.UTC().Format(time.RFC3339))
	}
}
