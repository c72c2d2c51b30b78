package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagecraft/client-go/internal/apierrors"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

// captureServer answers every request with reply and records what it saw.
func captureServer(t *testing.T, status int, reply any) (*httptest.Server, *capturedRequest) {
	t.Helper()
	seen := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.method = r.Method
		seen.path = r.URL.EscapedPath()
		seen.query = r.URL.RawQuery
		seen.body = nil
		_ = json.NewDecoder(r.Body).Decode(&seen.body)
		writeJSON(w, status, reply)
	}))
	t.Cleanup(server.Close)
	return server, seen
}

func TestEndpoints_Routes(t *testing.T) {
	ctx := context.Background()
	list := &ListOptions{Page: 2, Limit: 10}

	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		path   string
		query  string
	}{
		{"scrape", func(c *Client) error {
			_, err := c.Scrape(ctx, &ScrapeRequest{URL: "https://example.com"})
			return err
		}, "POST", "/scrape", ""},
		{"extract", func(c *Client) error {
			_, err := c.Extract(ctx, &ExtractRequest{URL: "https://example.com", Prompt: "p"})
			return err
		}, "POST", "/extract", ""},
		{"batch scrape", func(c *Client) error {
			_, err := c.BatchScrape(ctx, &BatchScrapeRequest{URLs: []string{"https://example.com"}})
			return err
		}, "POST", "/scrape/batch", ""},
		{"get batch scrape", func(c *Client) error {
			_, err := c.GetBatchScrape(ctx, "b1")
			return err
		}, "GET", "/scrape/batch/b1", ""},
		{"pdf", func(c *Client) error {
			_, err := c.GeneratePDF(ctx, &PDFRequest{HTML: "<p>x</p>"})
			return err
		}, "POST", "/pdf", ""},
		{"pdf batch", func(c *Client) error {
			_, err := c.BatchPDF(ctx, &PDFBatchRequest{})
			return err
		}, "POST", "/pdf/batch", ""},
		{"get pdf batch", func(c *Client) error {
			_, err := c.GetPDFBatch(ctx, "p1")
			return err
		}, "GET", "/pdf/batch/p1", ""},
		{"screenshot", func(c *Client) error {
			_, err := c.CaptureScreenshot(ctx, &ScreenshotRequest{URL: "https://example.com"})
			return err
		}, "POST", "/screenshot", ""},
		{"element", func(c *Client) error {
			_, err := c.CaptureElement(ctx, &ElementScreenshotRequest{URL: "https://example.com", Selector: "#a"})
			return err
		}, "POST", "/screenshot/element", ""},
		{"screenshot batch", func(c *Client) error {
			_, err := c.BatchScreenshot(ctx, &ScreenshotBatchRequest{})
			return err
		}, "POST", "/screenshot/batch", ""},
		{"get screenshot batch", func(c *Client) error {
			_, err := c.GetScreenshotBatch(ctx, "s1")
			return err
		}, "GET", "/screenshot/batch/s1", ""},
		{"create schedule", func(c *Client) error {
			_, err := c.CreateSchedule(ctx, &CreateScheduleRequest{Name: "n"})
			return err
		}, "POST", "/schedule", ""},
		{"list schedules", func(c *Client) error {
			_, err := c.ListSchedules(ctx, list)
			return err
		}, "GET", "/schedule", "limit=10&page=2"},
		{"list schedules without options", func(c *Client) error {
			_, err := c.ListSchedules(ctx, nil)
			return err
		}, "GET", "/schedule", ""},
		{"get schedule", func(c *Client) error {
			_, err := c.GetSchedule(ctx, "sch 1")
			return err
		}, "GET", "/schedule/sch%201", ""},
		{"update schedule", func(c *Client) error {
			_, err := c.UpdateSchedule(ctx, "sch1", &UpdateScheduleRequest{})
			return err
		}, "PATCH", "/schedule/sch1", ""},
		{"delete schedule", func(c *Client) error {
			return c.DeleteSchedule(ctx, "sch1")
		}, "DELETE", "/schedule/sch1", ""},
		{"create monitor", func(c *Client) error {
			_, err := c.CreateMonitor(ctx, &CreateMonitorRequest{URL: "https://example.com"})
			return err
		}, "POST", "/monitoring", ""},
		{"list monitors", func(c *Client) error {
			_, err := c.ListMonitors(ctx, list)
			return err
		}, "GET", "/monitoring", "limit=10&page=2"},
		{"get monitor", func(c *Client) error {
			_, err := c.GetMonitor(ctx, "m1")
			return err
		}, "GET", "/monitoring/m1", ""},
		{"update monitor", func(c *Client) error {
			_, err := c.UpdateMonitor(ctx, "m1", &UpdateMonitorRequest{})
			return err
		}, "PATCH", "/monitoring/m1", ""},
		{"delete monitor", func(c *Client) error {
			return c.DeleteMonitor(ctx, "m1")
		}, "DELETE", "/monitoring/m1", ""},
		{"pause monitor", func(c *Client) error {
			_, err := c.SetMonitorState(ctx, "m1", "pause")
			return err
		}, "POST", "/monitoring/m1/pause", ""},
		{"check now", func(c *Client) error {
			_, err := c.CheckMonitorNow(ctx, "m1")
			return err
		}, "POST", "/monitoring/m1/check-now", ""},
		{"checks", func(c *Client) error {
			_, err := c.ListMonitorChecks(ctx, "m1", nil)
			return err
		}, "GET", "/monitoring/m1/checks", ""},
		{"alerts", func(c *Client) error {
			_, err := c.ListMonitorAlerts(ctx, "m1", &ListOptions{Limit: 5})
			return err
		}, "GET", "/monitoring/m1/alerts", "limit=5"},
		{"list channels", func(c *Client) error {
			_, err := c.ListChannels(ctx)
			return err
		}, "GET", "/monitoring/channels", ""},
		{"create channel", func(c *Client) error {
			_, err := c.CreateChannel(ctx, &CreateChannelRequest{Type: "email"})
			return err
		}, "POST", "/monitoring/channels", ""},
		{"delete channel", func(c *Client) error {
			return c.DeleteChannel(ctx, "c1")
		}, "DELETE", "/monitoring/channels/c1", ""},
		{"credit balance", func(c *Client) error {
			_, err := c.GetCreditBalance(ctx)
			return err
		}, "GET", "/credits", ""},
		{"credit usage", func(c *Client) error {
			_, err := c.GetCreditUsage(ctx, &CreditUsageOptions{Period: "week"})
			return err
		}, "GET", "/credits/usage", "period=week"},
		{"credit summary", func(c *Client) error {
			_, err := c.GetCreditSummary(ctx)
			return err
		}, "GET", "/credits/summary", ""},
		{"create session", func(c *Client) error {
			_, err := c.CreateResearchSession(ctx, &CreateResearchSessionRequest{Title: "t"})
			return err
		}, "POST", "/deep-research/sessions", ""},
		{"list sessions", func(c *Client) error {
			_, err := c.ListResearchSessions(ctx, nil)
			return err
		}, "GET", "/deep-research/sessions", ""},
		{"get session", func(c *Client) error {
			_, err := c.GetResearchSession(ctx, "r1")
			return err
		}, "GET", "/deep-research/sessions/r1", ""},
		{"delete session", func(c *Client) error {
			return c.DeleteResearchSession(ctx, "r1")
		}, "DELETE", "/deep-research/sessions/r1", ""},
		{"add item", func(c *Client) error {
			_, err := c.AddResearchItem(ctx, "r1", &AddResearchItemRequest{Content: "c"})
			return err
		}, "POST", "/deep-research/sessions/r1/items", ""},
		{"list items", func(c *Client) error {
			_, err := c.ListResearchItems(ctx, "r1")
			return err
		}, "GET", "/deep-research/sessions/r1/items", ""},
		{"remove item", func(c *Client) error {
			return c.RemoveResearchItem(ctx, "r1", "i/1")
		}, "DELETE", "/deep-research/sessions/r1/items/i%2F1", ""},
		{"chat", func(c *Client) error {
			_, err := c.ResearchChat(ctx, "r1", &ResearchChatRequest{Message: "hi"})
			return err
		}, "POST", "/deep-research/sessions/r1/chat", ""},
		{"analyze", func(c *Client) error {
			_, err := c.AnalyzeResearch(ctx, "r1", &ResearchAnalyzeRequest{Type: "summary"})
			return err
		}, "POST", "/deep-research/sessions/r1/analyze", ""},
		{"usage", func(c *Client) error {
			_, err := c.GetUsage(ctx, &UsageOptions{GroupBy: "day"})
			return err
		}, "GET", "/usage", "groupBy=day"},
		{"ping", func(c *Client) error {
			return c.Ping(ctx)
		}, "GET", "/credits", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, seen := captureServer(t, http.StatusNoContent, nil)
			client, _ := newTestClient(t, server.URL)

			if err := tt.call(client); err != nil {
				t.Fatalf("call error = %v", err)
			}
			if seen.method != tt.method {
				t.Errorf("method = %s, want %s", seen.method, tt.method)
			}
			if seen.path != tt.path {
				t.Errorf("path = %s, want %s", seen.path, tt.path)
			}
			if seen.query != tt.query {
				t.Errorf("query = %q, want %q", seen.query, tt.query)
			}
		})
	}
}

func TestScrape_DecodesEnvelope(t *testing.T) {
	server, seen := captureServer(t, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"url":         "https://example.com",
			"markdown":    "# Hello",
			"metadata":    map[string]any{"title": "Hello", "statusCode": 200},
			"creditsUsed": 1,
		},
	})
	client, _ := newTestClient(t, server.URL)

	result, err := client.Scrape(context.Background(), &ScrapeRequest{
		URL:     "https://example.com",
		Formats: []ScrapeFormat{FormatMarkdown},
	})
	if err != nil {
		t.Fatalf("Scrape() error = %v", err)
	}
	if result.Markdown != "# Hello" || result.Metadata.Title != "Hello" || result.CreditsUsed != 1 {
		t.Errorf("result = %+v", result)
	}
	if seen.body["url"] != "https://example.com" {
		t.Errorf("body url = %v", seen.body["url"])
	}
	if _, ok := seen.body["waitFor"]; ok {
		t.Error("zero waitFor should be omitted from the body")
	}
}

func TestBatchJob_Done(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobProcessing, false},
		{JobCompleted, true},
		{JobFailed, true},
	}
	for _, tt := range tests {
		job := &BatchJob[PDFResult]{Status: tt.status}
		if got := job.Done(); got != tt.want {
			t.Errorf("Done() for %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestUsageOptions_Values(t *testing.T) {
	from := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	opts := &UsageOptions{From: from, Feature: "pdf"}

	q := opts.Values()
	if got := q.Get("from"); got != "2026-01-02T02:04:05Z" {
		t.Errorf("from = %s", got)
	}
	if q.Has("to") {
		t.Error("zero To should be omitted")
	}
	if got := q.Get("feature"); got != "pdf" {
		t.Errorf("feature = %s", got)
	}

	var nilOpts *UsageOptions
	if len(nilOpts.Values()) != 0 {
		t.Error("nil options should encode to an empty query")
	}
}

func TestEndpoints_ErrorPassthrough(t *testing.T) {
	server, _ := captureServer(t, http.StatusNotFound, map[string]any{"error": "missing"})
	client, _ := newTestClient(t, server.URL)

	_, err := client.GetMonitor(context.Background(), "nope")

	var nf *apierrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %T, want *NotFoundError", err)
	}
	if nf.Message != "Resource not found" {
		t.Errorf("Message = %q", nf.Message)
	}
}

func TestEndpoints_QueryDoesNotAliasCallerOptions(t *testing.T) {
	server, seen := captureServer(t, http.StatusOK, map[string]any{"items": []any{}})
	client, _ := newTestClient(t, server.URL)

	opts := make([]RequestOption, 1, 4)
	opts[0] = WithRequestHeaders(map[string]string{"X-Team": "docs"})

	if _, err := client.ListSchedules(context.Background(), &ListOptions{Page: 2}, opts...); err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if seen.query != "page=2" {
		t.Errorf("query = %q, want page=2", seen.query)
	}
	if spare := opts[:cap(opts)]; spare[1] != nil {
		t.Error("ListSchedules wrote into the caller's option slice")
	}

	if _, err := client.GetUsage(context.Background(), &UsageOptions{Feature: "pdf"}, opts...); err != nil {
		t.Fatalf("GetUsage() error = %v", err)
	}
	if spare := opts[:cap(opts)]; spare[1] != nil {
		t.Error("GetUsage wrote into the caller's option slice")
	}
}
