// Package pagecraft provides a Go client for the PageCraft API: web scraping,
// structured extraction, PDF rendering, screenshots, scheduled jobs, change
// monitoring, credit accounting, usage reports and deep research sessions.
//
// The service does the scraping and rendering; this package authenticates
// requests, retries transient failures and maps error responses onto typed
// errors.
//
// Basic usage:
//
//	client, err := pagecraft.New("pc_your_api_key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := client.ScrapeURL(ctx, "https://example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(page.Markdown)
//
// # Retries and timeouts
//
// Every call makes up to WithRetries+1 attempts (3 retries by default). Network
// failures, attempt timeouts and 5xx responses are retried with exponential
// backoff (1s, 2s, 4s, capped at 10s). 4xx responses are returned at once.
// Each attempt is bounded by WithTimeout (30s by default) or, for one call,
// WithRequestTimeout. The context passed to a method bounds the whole call,
// backoff waits included.
//
// # Errors
//
// Every error returned by a call implements [Error]. Use errors.As to reach
// the variant and its fields:
//
//	var rl *pagecraft.RateLimitError
//	if errors.As(err, &rl) && rl.RetryAfter != nil {
//	    time.Sleep(time.Duration(*rl.RetryAfter) * time.Second)
//	}
//
// or errors.Is with a sentinel such as [ErrInsufficientCredits].
//
// # Configuration
//
// [LoadConfig] reads settings from a file and PAGECRAFT_* environment variables;
// [NewFromConfig] builds a client from the result.
package pagecraft
