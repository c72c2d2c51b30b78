package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagecraft/client-go/internal/apierrors"
)

// Version is the client library version reported in the User-Agent header.
const Version = "0.4.0"

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.pagecraft.dev/v1"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = time.Second
	DefaultMaxRetryDelay = 10 * time.Second
	DefaultUserAgent     = "pagecraft-go/" + Version

	tracerName = "github.com/pagecraft/client-go"
)

// Client is the HTTP API client. It is safe for concurrent use; nothing
// is mutated after New returns.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	retry      RetryConfig
	headers    map[string]string
	userAgent  string
	logger     zerolog.Logger
	tracer     trace.Tracer

	throttleRPS   int
	throttleBurst int

	// sleep waits between attempts. Tests swap it for a recording clock.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithRetries sets the number of retries. Zero disables retrying.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retry.MaxRetries = retries
	}
}

// WithRetryDelay sets the base and maximum backoff delays.
func WithRetryDelay(base, max time.Duration) Option {
	return func(c *Client) {
		c.retry.BaseDelay = base
		c.retry.MaxDelay = max
	}
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client. A client Timeout shorter than
// the attempt timeout also ends attempts, and is reported as the timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithHeaders sets extra headers sent on every request.
// Per-call headers take precedence over these.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTracer sets the tracer used to record request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithThrottle limits outbound requests to rps per second with the given burst.
func WithThrottle(rps, burst int) Option {
	return func(c *Client) {
		c.throttleRPS = rps
		c.throttleBurst = burst
	}
}

// New creates a new API client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, apierrors.NewValidationError("API key is required", "apiKey")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		retry:      *DefaultRetryConfig(),
		userAgent:  DefaultUserAgent,
		logger:     zerolog.Nop(),
		tracer:     otel.Tracer(tracerName),
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retry.MaxRetries < 0 {
		return nil, apierrors.NewValidationError("retries must not be negative", "maxRetries")
	}
	if c.timeout <= 0 {
		return nil, apierrors.NewValidationError("timeout must be positive", "timeout")
	}

	if c.throttleRPS != 0 || c.throttleBurst != 0 {
		hc := *c.httpClient
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		rt, err := newThrottle(c.throttleRPS, c.throttleBurst, c.logger, next)
		if err != nil {
			return nil, apierrors.NewValidationError(err.Error(), "throttle")
		}
		hc.Transport = rt
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Timeout returns the default per-attempt timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// MaxRetries returns the configured number of retries.
func (c *Client) MaxRetries() int {
	return c.retry.MaxRetries
}

// RequestOption configures a single call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	headers         map[string]string
	timeout         time.Duration
	query           url.Values
	responseHeaders *http.Header
}

// WithRequestHeaders adds headers to a single call.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			rc.headers[k] = v
		}
	}
}

// WithRequestTimeout overrides the per-attempt timeout for a single call.
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = timeout
	}
}

// WithQuery appends query parameters to the request URL.
func WithQuery(query url.Values) RequestOption {
	return func(rc *requestConfig) {
		rc.query = query
	}
}

// WithResponseHeaders stores the headers of the final response in dst.
func WithResponseHeaders(dst *http.Header) RequestOption {
	return func(rc *requestConfig) {
		rc.responseHeaders = dst
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, result, opts...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, result, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, result, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, result, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, result, opts...)
}

// Do performs one logical API call: up to MaxRetries+1 attempts, each bounded
// by its own timeout. On success the response (unwrapped from its
// {success, data} envelope when present) is decoded into result, which may be nil.
// Every failure is returned as an apierrors.Error.
func (c *Client) Do(ctx context.Context, method, path string, body, result any, opts ...RequestOption) error {
	var rc requestConfig
	for _, opt := range opts {
		opt(&rc)
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apierrors.NewValidationError(fmt.Sprintf("failed to marshal request body: %v", err), "body")
		}
		payload = data
	}

	reqURL := c.baseURL + path
	if len(rc.query) > 0 {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + rc.query.Encode()
	}

	timeout := c.timeout
	if rc.timeout > 0 {
		timeout = rc.timeout
	}

	requestID := uuid.NewString()
	headers := c.buildHeaders(requestID, rc.headers)

	ctx, span := c.tracer.Start(ctx, "pagecraft.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("pagecraft.request_id", requestID),
		))
	defer span.End()

	log := c.logger.With().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Logger()

	var lastErr error
	attempts := c.retry.Attempts()
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.retry.Delay(attempt - 1)
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying request")
			if err := c.sleep(ctx, delay); err != nil {
				lastErr = apierrors.NewNetworkError(err, reqURL, attempt)
				break
			}
		}

		err := c.attempt(ctx, attemptRequest{
			method:    method,
			url:       reqURL,
			payload:   payload,
			headers:   headers,
			timeout:   timeout,
			attempt:   attempt,
			requestID: requestID,
			result:    result,
			rc:        &rc,
		})
		if err == nil {
			span.SetAttributes(attribute.Int("pagecraft.attempts", attempt+1))
			span.SetStatus(codes.Ok, "")
			return nil
		}
		lastErr = err

		span.AddEvent("attempt failed", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("error", err.Error()),
		))

		if ctx.Err() != nil {
			break
		}
		if !apierrors.IsRetryable(err) {
			break
		}
		if !c.retry.HasNext(attempt) {
			log.Warn().Err(err).Int("attempts", attempt+1).Msg("retries exhausted")
			break
		}
	}

	var apiErr apierrors.Error
	if errors.As(lastErr, &apiErr) && apiErr.Info().RequestID == "" {
		apiErr.Info().RequestID = requestID
	}

	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return lastErr
}

func (c *Client) buildHeaders(requestID string, perCall map[string]string) map[string]string {
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"User-Agent":    c.userAgent,
		"X-Request-ID":  requestID,
	}
	for k, v := range c.headers {
		headers[k] = v
	}
	for k, v := range perCall {
		headers[k] = v
	}
	return headers
}

type attemptRequest struct {
	method    string
	url       string
	payload   []byte
	headers   map[string]string
	timeout   time.Duration
	attempt   int
	requestID string
	result    any
	rc        *requestConfig
}

// attempt runs a single try raced against its own deadline. The deadline
// context is always cancelled on return, which releases the transport.
func (c *Client) attempt(ctx context.Context, ar attemptRequest) error {
	attemptCtx, cancel := context.WithTimeout(ctx, ar.timeout)
	defer cancel()

	var bodyReader io.Reader
	if ar.payload != nil {
		bodyReader = bytes.NewReader(ar.payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, ar.method, ar.url, bodyReader)
	if err != nil {
		return apierrors.NewNetworkError(fmt.Errorf("failed to create request: %w", err), ar.url, ar.attempt)
	}
	for k, v := range ar.headers {
		req.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(attemptCtx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.classifyTransportError(ctx, attemptCtx, err, ar)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.classifyTransportError(ctx, attemptCtx, err, ar)
	}

	if ar.rc.responseHeaders != nil {
		*ar.rc.responseHeaders = resp.Header.Clone()
	}

	return handleResponse(resp.StatusCode, resp.Status, data, ar.result, ar.requestID)
}

// classifyTransportError separates the attempt running out of time from
// other transport failures. A cancelled caller context is never reported as
// a timeout.
func (c *Client) classifyTransportError(ctx, attemptCtx context.Context, err error, ar attemptRequest) error {
	if ctx.Err() == nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return c.timeoutError(ar)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return c.timeoutError(ar)
		}
	}
	netErr := apierrors.NewNetworkError(err, ar.url, ar.attempt)
	netErr.RequestID = ar.requestID
	return netErr
}

// timeoutError reports the limit that actually applied: the attempt timeout,
// or the HTTP client's own Timeout when that is shorter.
func (c *Client) timeoutError(ar attemptRequest) error {
	limit := ar.timeout
	if hc := c.httpClient.Timeout; hc > 0 && hc < limit {
		limit = hc
	}
	e := apierrors.NewTimeoutError(limit)
	e.RequestID = ar.requestID
	return e
}
