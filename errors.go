package pagecraft

import (
	"github.com/pagecraft/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrUnauthorized is returned when the API key is invalid or expired (401).
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrForbidden is returned when the API key lacks permission (403).
	ErrForbidden = apierrors.ErrForbidden

	// ErrNotFound is returned when a resource does not exist (404).
	ErrNotFound = apierrors.ErrNotFound

	// ErrValidation is returned when input is rejected before any request is sent.
	ErrValidation = apierrors.ErrValidation

	// ErrRateLimited is returned when the API rate limit is exceeded (429).
	ErrRateLimited = apierrors.ErrRateLimited

	// ErrInsufficientCredits is returned when the account is out of credits (402).
	ErrInsufficientCredits = apierrors.ErrInsufficientCredits

	// ErrTimeout is returned when a request attempt exceeds its deadline.
	ErrTimeout = apierrors.ErrTimeout

	// ErrNetwork is returned for transport failures.
	ErrNetwork = apierrors.ErrNetwork

	// ErrServer is returned for 5xx responses.
	ErrServer = apierrors.ErrServer

	// ErrAPI is returned for other API failures.
	ErrAPI = apierrors.ErrAPI
)

// Error is implemented by every error the client returns. The set of
// implementations is closed; switch on Kind to handle each variant.
type Error = apierrors.Error

// ErrorInfo holds the fields shared by every error variant.
type ErrorInfo = apierrors.ErrorInfo

// ErrorKind identifies an error variant.
type ErrorKind = apierrors.Kind

// Error kinds.
const (
	KindAPI                 = apierrors.KindAPI
	KindAuthentication      = apierrors.KindAuthentication
	KindAuthorization       = apierrors.KindAuthorization
	KindNotFound            = apierrors.KindNotFound
	KindValidation          = apierrors.KindValidation
	KindRateLimit           = apierrors.KindRateLimit
	KindInsufficientCredits = apierrors.KindInsufficientCredits
	KindTimeout             = apierrors.KindTimeout
	KindNetwork             = apierrors.KindNetwork
	KindServer              = apierrors.KindServer
)

type (
	// AuthenticationError indicates a bad or missing API key (401).
	AuthenticationError = apierrors.AuthenticationError
	// AuthorizationError indicates insufficient permission (403).
	AuthorizationError = apierrors.AuthorizationError
	// NotFoundError indicates a missing resource (404).
	NotFoundError = apierrors.NotFoundError
	// ValidationError reports input rejected locally. Field names the offending input.
	ValidationError = apierrors.ValidationError
	// RateLimitError indicates an exceeded quota (429). RetryAfter is in seconds and may be nil.
	RateLimitError = apierrors.RateLimitError
	// InsufficientCreditsError indicates an exhausted credit balance (402).
	InsufficientCreditsError = apierrors.InsufficientCreditsError
	// TimeoutError indicates an attempt exceeded its deadline.
	TimeoutError = apierrors.TimeoutError
	// NetworkError represents a network-level failure.
	NetworkError = apierrors.NetworkError
	// ServerError indicates an upstream failure (5xx).
	ServerError = apierrors.ServerError
	// APIError is the fallback for other statuses and carries the server's code.
	APIError = apierrors.APIError
)

// IsRetryable reports whether err is a transient failure worth retrying later.
func IsRetryable(err error) bool {
	return apierrors.IsRetryable(err)
}
