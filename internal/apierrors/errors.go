// Package apierrors provides shared error types for the pagecraft client.
//
// Every failure surfaced by the client is one of the variants declared here.
// The set is closed: callers can switch on [Error.Kind] and handle every case.
package apierrors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnauthorized is returned when the API key is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API key")

	// ErrForbidden is returned when the API key lacks permission for the operation.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when input is rejected before any request is sent.
	ErrValidation = errors.New("validation failed")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInsufficientCredits is returned when the account has run out of credits.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrTimeout is returned when a request attempt exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork is returned for transport failures that are not timeouts.
	ErrNetwork = errors.New("network error")

	// ErrServer is returned when the service fails with a 5xx status.
	ErrServer = errors.New("server error")

	// ErrAPI is returned for any other API failure.
	ErrAPI = errors.New("API error")
)

// Kind identifies an error variant.
type Kind int

const (
	KindAPI Kind = iota
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindValidation
	KindRateLimit
	KindInsufficientCredits
	KindTimeout
	KindNetwork
	KindServer
)

var kindNames = map[Kind]string{
	KindAPI:                 "api",
	KindAuthentication:      "authentication",
	KindAuthorization:       "authorization",
	KindNotFound:            "not_found",
	KindValidation:          "validation",
	KindRateLimit:           "rate_limit",
	KindInsufficientCredits: "insufficient_credits",
	KindTimeout:             "timeout",
	KindNetwork:             "network",
	KindServer:              "server",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error codes assigned when the server does not provide one.
const (
	CodeAuthentication      = "AUTHENTICATION_ERROR"
	CodeAuthorization       = "AUTHORIZATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeRateLimit           = "RATE_LIMIT_EXCEEDED"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeTimeout             = "TIMEOUT"
	CodeNetwork             = "NETWORK_ERROR"
	CodeServer              = "SERVER_ERROR"
	CodeAPI                 = "API_ERROR"
	CodeInvalidResponse     = "INVALID_RESPONSE"
)

// ErrorInfo holds the fields shared by every variant.
type ErrorInfo struct {
	Message    string
	Code       string
	StatusCode int // 0 when no HTTP response was received
	Details    map[string]any
	RequestID  string
}

func (i *ErrorInfo) format(prefix string) string {
	msg := prefix
	if i.StatusCode != 0 {
		msg = fmt.Sprintf("%s %d", msg, i.StatusCode)
	}
	if i.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, i.Message)
	}
	if i.RequestID != "" {
		msg = fmt.Sprintf("%s (request_id: %s)", msg, i.RequestID)
	}
	return msg
}

// Info returns the shared error fields.
func (i *ErrorInfo) Info() *ErrorInfo { return i }

func (i *ErrorInfo) sealed() {}

// Error is implemented by all client errors.
type Error interface {
	error
	Kind() Kind
	Info() *ErrorInfo
	sealed()
}

// AuthenticationError indicates a missing or invalid API key (401).
type AuthenticationError struct{ ErrorInfo }

func (e *AuthenticationError) Error() string { return e.format("authentication failed") }

// Kind implements Error.
func (e *AuthenticationError) Kind() Kind { return KindAuthentication }

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool { return target == ErrUnauthorized }

// AuthorizationError indicates the key is valid but not allowed to perform the operation (403).
type AuthorizationError struct{ ErrorInfo }

func (e *AuthorizationError) Error() string { return e.format("authorization failed") }

// Kind implements Error.
func (e *AuthorizationError) Kind() Kind { return KindAuthorization }

// Is implements errors.Is for sentinel error matching.
func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError indicates the requested resource does not exist (404).
type NotFoundError struct{ ErrorInfo }

func (e *NotFoundError) Error() string { return e.format("not found") }

// Kind implements Error.
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// Is implements errors.Is for sentinel error matching.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports input rejected locally, before any network call.
type ValidationError struct {
	ErrorInfo
	Field string
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{
		ErrorInfo: ErrorInfo{Message: message, Code: CodeValidation, StatusCode: 400},
		Field:     field,
	}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Kind implements Error.
func (e *ValidationError) Kind() Kind { return KindValidation }

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RateLimitError indicates the request quota was exceeded (429).
type RateLimitError struct {
	ErrorInfo
	// RetryAfter is the server's hint in seconds; nil when absent or unparseable.
	RetryAfter *int
}

func (e *RateLimitError) Error() string {
	msg := e.format("rate limited")
	if e.RetryAfter != nil {
		msg = fmt.Sprintf("%s (retry after %ds)", msg, *e.RetryAfter)
	}
	return msg
}

// Kind implements Error.
func (e *RateLimitError) Kind() Kind { return KindRateLimit }

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// InsufficientCreditsError indicates the account cannot pay for the operation (402).
type InsufficientCreditsError struct {
	ErrorInfo
	CreditsRequired  int
	CreditsRemaining int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%s (required: %d, remaining: %d)",
		e.format("insufficient credits"), e.CreditsRequired, e.CreditsRemaining)
}

// Kind implements Error.
func (e *InsufficientCreditsError) Kind() Kind { return KindInsufficientCredits }

// Is implements errors.Is for sentinel error matching.
func (e *InsufficientCreditsError) Is(target error) bool { return target == ErrInsufficientCredits }

// TimeoutError indicates a request attempt exceeded its deadline.
type TimeoutError struct {
	ErrorInfo
	Timeout time.Duration
}

// NewTimeoutError builds a TimeoutError for the given deadline.
func NewTimeoutError(timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		ErrorInfo: ErrorInfo{
			Message:    fmt.Sprintf("request timed out after %dms", timeout.Milliseconds()),
			Code:       CodeTimeout,
			StatusCode: 408,
		},
		Timeout: timeout,
	}
}

func (e *TimeoutError) Error() string { return e.Message }

// Kind implements Error.
func (e *TimeoutError) Kind() Kind { return KindTimeout }

// Is implements errors.Is for sentinel error matching.
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NetworkError represents a network-level failure.
type NetworkError struct {
	ErrorInfo
	Err     error
	URL     string
	Attempt int
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(err error, url string, attempt int) *NetworkError {
	return &NetworkError{
		ErrorInfo: ErrorInfo{Message: err.Error(), Code: CodeNetwork},
		Err:       err,
		URL:       url,
		Attempt:   attempt,
	}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Kind implements Error.
func (e *NetworkError) Kind() Kind { return KindNetwork }

// Is implements errors.Is for sentinel error matching.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ServerError indicates an upstream failure (5xx).
type ServerError struct{ ErrorInfo }

func (e *ServerError) Error() string { return e.format("server error") }

// Kind implements Error.
func (e *ServerError) Kind() Kind { return KindServer }

// Is implements errors.Is for sentinel error matching.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// APIError is the fallback for statuses without a dedicated variant.
// Code carries the server-provided error code.
type APIError struct{ ErrorInfo }

func (e *APIError) Error() string { return e.format("API error") }

// Kind implements Error.
func (e *APIError) Kind() Kind { return KindAPI }

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool { return target == ErrAPI }

// FromStatus builds the variant matching statusCode.
// Only the fields shared by all variants are populated; callers fill in the extras.
func FromStatus(statusCode int, info ErrorInfo) Error {
	info.StatusCode = statusCode
	switch {
	case statusCode == 401:
		return &AuthenticationError{ErrorInfo: withCode(info, CodeAuthentication)}
	case statusCode == 402:
		return &InsufficientCreditsError{ErrorInfo: withCode(info, CodeInsufficientCredits)}
	case statusCode == 403:
		return &AuthorizationError{ErrorInfo: withCode(info, CodeAuthorization)}
	case statusCode == 404:
		return &NotFoundError{ErrorInfo: withCode(info, CodeNotFound)}
	case statusCode == 429:
		return &RateLimitError{ErrorInfo: withCode(info, CodeRateLimit)}
	case statusCode >= 500:
		return &ServerError{ErrorInfo: withCode(info, CodeServer)}
	default:
		return &APIError{ErrorInfo: withCode(info, CodeAPI)}
	}
}

func withCode(info ErrorInfo, code string) ErrorInfo {
	if info.Code == "" {
		info.Code = code
	}
	return info
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e Error
	if errors.As(err, &e) {
		return e.Info().StatusCode
	}
	return 0
}

// IsRetryable reports whether err is transient. Network and timeout failures
// and 5xx responses are retryable; anything carrying a 4xx status is not.
func IsRetryable(err error) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind() {
	case KindTimeout, KindNetwork:
		return true
	case KindValidation:
		return false
	}
	status := e.Info().StatusCode
	return status == 0 || status >= 500
}
