package pagecraft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newTestServer starts a server and a client pointed at it with retries off.
func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []Option{WithBaseURL(server.URL), WithRetries(0), WithLogger(zerolog.Nop())}
	client, err := New("pc_test_key", append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, server
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("New() error = %v, want *ValidationError", err)
	}
	if verr.Message != "API key is required" {
		t.Errorf("Message = %q, want %q", verr.Message, "API key is required")
	}
	if verr.Field != "apiKey" {
		t.Errorf("Field = %q, want apiKey", verr.Field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false")
	}
}

func TestNew_WarnsOnUnexpectedKeyPrefix(t *testing.T) {
	tests := []struct {
		key      string
		wantWarn bool
	}{
		{"pc_live_123", false},
		{"sk_live_123", true},
		{"live_123", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.WarnLevel)

			client, err := New(tt.key, WithLogger(logger))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if client == nil {
				t.Fatal("New() returned nil client")
			}

			warned := strings.Contains(buf.String(), `"level":"warn"`)
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v (log: %s)", warned, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		field string
	}{
		{"negative retries", []Option{WithRetries(-1)}, "maxRetries"},
		{"zero timeout", []Option{WithTimeout(0)}, "timeout"},
		{"bad rate limit", []Option{WithRateLimit(0, 5)}, "throttle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("pc_key", append(tt.opts, WithLogger(zerolog.Nop()))...)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("New() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	client, err := New("pc_key", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.BaseURL() != defaultBaseURL {
		t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), defaultBaseURL)
	}
	if client.apiClient.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", client.apiClient.Timeout())
	}
	if client.apiClient.MaxRetries() != 3 {
		t.Errorf("MaxRetries() = %d, want 3", client.apiClient.MaxRetries())
	}
}

func TestClient_SendsAuthAndHeaders(t *testing.T) {
	var got http.Header
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writeJSON(w, http.StatusOK, envelope(map[string]any{"balance": 10}))
	}, WithHeaders(map[string]string{"X-Team": "docs"}), WithUserAgent("my-app/1.0"))

	if _, err := client.Credits().Balance(context.Background(),
		WithRequestHeaders(map[string]string{"X-Trace": "abc"})); err != nil {
		t.Fatalf("Balance() error = %v", err)
	}

	checks := map[string]string{
		"Authorization": "Bearer pc_test_key",
		"Content-Type":  "application/json",
		"User-Agent":    "my-app/1.0",
		"X-Team":        "docs",
		"X-Trace":       "abc",
	}
	for k, want := range checks {
		if got.Get(k) != want {
			t.Errorf("%s = %q, want %q", k, got.Get(k), want)
		}
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "upstream"})
			return
		}
		writeJSON(w, http.StatusOK, envelope(map[string]any{"balance": 5}))
	}))
	defer server.Close()

	client, err := New("pc_key", WithBaseURL(server.URL), WithRetries(1), WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// A single retry waits the 1s base backoff.
	balance, err := client.Credits().Balance(context.Background())
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance.Balance != 5 {
		t.Errorf("Balance = %d, want 5", balance.Balance)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("hits = %d, want 2", got)
	}
}

func TestClient_ErrorVariants(t *testing.T) {
	tests := []struct {
		status int
		body   map[string]any
		kind   ErrorKind
	}{
		{401, map[string]any{"error": "Invalid API key"}, KindAuthentication},
		{402, map[string]any{"error": "Out of credits", "creditsRequired": 5, "creditsRemaining": 2}, KindInsufficientCredits},
		{403, map[string]any{"error": "Forbidden"}, KindAuthorization},
		{404, map[string]any{"error": "nope"}, KindNotFound},
		{409, map[string]any{"error": "conflict", "code": "CONFLICT"}, KindAPI},
		{429, map[string]any{"error": "slow down", "retryAfter": 30}, KindRateLimit},
		{500, map[string]any{"error": "boom"}, KindServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := client.Credits().Summary(context.Background())

			var perr Error
			if !errors.As(err, &perr) {
				t.Fatalf("error = %T %v, want pagecraft.Error", err, err)
			}
			if perr.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", perr.Kind(), tt.kind)
			}
			if perr.Info().StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", perr.Info().StatusCode, tt.status)
			}
		})
	}
}

func TestClient_InsufficientCreditsFields(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error":            "Out of credits",
			"creditsRequired":  5,
			"creditsRemaining": 2,
		})
	})

	_, err := client.ScrapeURL(context.Background(), "https://example.com")

	var cerr *InsufficientCreditsError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want *InsufficientCreditsError", err)
	}
	if cerr.CreditsRequired != 5 || cerr.CreditsRemaining != 2 {
		t.Errorf("credits = (%d, %d), want (5, 2)", cerr.CreditsRequired, cerr.CreditsRemaining)
	}
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Error("errors.Is(err, ErrInsufficientCredits) = false")
	}
}

func TestClient_ScrapeURL(t *testing.T) {
	var body map[string]any
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/scrape" {
			t.Errorf("request = %s %s, want POST /scrape", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, envelope(map[string]any{
			"url":      "https://example.com",
			"markdown": "# Example",
		}))
	})

	page, err := client.ScrapeURL(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ScrapeURL() error = %v", err)
	}
	if page.Markdown != "# Example" {
		t.Errorf("Markdown = %q", page.Markdown)
	}
	formats, _ := body["formats"].([]any)
	if len(formats) != 1 || formats[0] != "markdown" {
		t.Errorf("formats = %v, want [markdown]", body["formats"])
	}
}

func TestClient_ScreenshotURL(t *testing.T) {
	var body map[string]any
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"url": "https://cdn.example/shot.png", "format": "png"})
	})

	shot, err := client.ScreenshotURL(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("ScreenshotURL() error = %v", err)
	}
	if shot.Format != "png" {
		t.Errorf("Format = %q, want png", shot.Format)
	}
	if body["fullPage"] != true {
		t.Errorf("fullPage = %v, want true", body["fullPage"])
	}
}

func TestClient_Overview(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/credits":
			writeJSON(w, http.StatusOK, envelope(map[string]any{"balance": 120, "plan": "pro"}))
		case "/credits/summary":
			writeJSON(w, http.StatusOK, envelope(map[string]any{"usedThisPeriod": 30}))
		case "/usage":
			writeJSON(w, http.StatusOK, envelope(map[string]any{"totalRequests": 42}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	overview, err := client.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if overview.Balance.Balance != 120 || overview.Balance.Plan != "pro" {
		t.Errorf("Balance = %+v", overview.Balance)
	}
	if overview.Summary.UsedThisPeriod != 30 {
		t.Errorf("Summary = %+v", overview.Summary)
	}
	if overview.Usage.TotalRequests != 42 {
		t.Errorf("Usage = %+v", overview.Usage)
	}
}

func TestClient_OverviewFailure(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/credits/summary" {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": "no access"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := client.Overview(context.Background())
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Overview() error = %v, want ErrForbidden", err)
	}
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer pc_test_key" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "bad key"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"balance": 1})
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
