package pagecraft

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/pagecraft/client-go/internal/api"
)

const (
	defaultBaseURL = api.DefaultBaseURL
	defaultTimeout = api.DefaultTimeout
	defaultRetries = api.DefaultMaxRetries

	// apiKeyPrefix is the prefix every issued key carries.
	apiKeyPrefix = "pc_"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    int
	headers    map[string]string
	userAgent  string
	logger     *zerolog.Logger
	tracer     trace.Tracer

	rateLimitRPS   int
	rateLimitBurst int
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default per-attempt timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for transient failures.
// Zero disables retrying. Default: 3
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) {
		c.headers = headers
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger. By default warnings are written to stderr.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithTracer sets the OpenTelemetry tracer used for request spans.
// By default the global tracer provider is used.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *clientConfig) {
		c.tracer = tracer
	}
}

// WithRateLimit throttles outgoing requests on the client side to rps
// requests per second with the given burst.
func WithRateLimit(rps, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimitRPS = rps
		c.rateLimitBurst = burst
	}
}

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
}

// apiOptions translates the client config into engine options.
func (c *clientConfig) apiOptions(logger zerolog.Logger) []api.Option {
	opts := []api.Option{
		api.WithBaseURL(c.baseURL),
		api.WithTimeout(c.timeout),
		api.WithRetries(c.retries),
		api.WithLogger(logger),
	}
	if c.httpClient != nil {
		opts = append(opts, api.WithHTTPClient(c.httpClient))
	}
	if len(c.headers) > 0 {
		opts = append(opts, api.WithHeaders(c.headers))
	}
	if c.userAgent != "" {
		opts = append(opts, api.WithUserAgent(c.userAgent))
	}
	if c.tracer != nil {
		opts = append(opts, api.WithTracer(c.tracer))
	}
	if c.rateLimitRPS != 0 || c.rateLimitBurst != 0 {
		opts = append(opts, api.WithThrottle(c.rateLimitRPS, c.rateLimitBurst))
	}
	return opts
}

// RequestOption configures a single call.
type RequestOption = api.RequestOption

// WithRequestTimeout overrides the per-attempt timeout for one call.
func WithRequestTimeout(timeout time.Duration) RequestOption {
	return api.WithRequestTimeout(timeout)
}

// WithRequestHeaders adds headers to one call. They override client-wide headers.
func WithRequestHeaders(headers map[string]string) RequestOption {
	return api.WithRequestHeaders(headers)
}

// WithResponseHeaders captures the final response headers of one call,
// for example to read rate-limit information with ParseRateLimit.
func WithResponseHeaders(dst *http.Header) RequestOption {
	return api.WithResponseHeaders(dst)
}
