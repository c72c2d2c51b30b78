package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pagecraft/client-go/internal/apierrors"
)

// Default messages used when the server body carries none.
const (
	msgNotFound            = "Resource not found"
	msgUnauthorized        = "Invalid or missing API key"
	msgForbidden           = "Access denied"
	msgRateLimited         = "Rate limit exceeded"
	msgInsufficientCredits = "Insufficient credits"
)

// Defaults for 402 responses without credit fields.
const (
	defaultCreditsRequired  = 1
	defaultCreditsRemaining = 0
)

// handleResponse turns a completed HTTP exchange into either a decoded
// result or a classified error. data is never modified.
func handleResponse(statusCode int, status string, data []byte, result any, requestID string) error {
	ok := statusCode >= 200 && statusCode < 300

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		if ok {
			return nil
		}
		return &apierrors.ServerError{ErrorInfo: apierrors.ErrorInfo{
			Message:    statusText(statusCode, status),
			Code:       apierrors.CodeServer,
			StatusCode: statusCode,
			RequestID:  requestID,
		}}
	}

	if !ok {
		return parseErrorResponse(statusCode, trimmed, requestID)
	}

	if result == nil {
		return nil
	}

	payload := unwrapEnvelope(trimmed)
	if err := json.Unmarshal(payload, result); err != nil {
		return &apierrors.APIError{ErrorInfo: apierrors.ErrorInfo{
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Code:       apierrors.CodeInvalidResponse,
			StatusCode: statusCode,
			RequestID:  requestID,
		}}
	}
	return nil
}

// unwrapEnvelope returns the data member of a {success, data} envelope,
// or the body itself when it has no such envelope.
func unwrapEnvelope(body []byte) []byte {
	if body[0] != '{' {
		return body
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	_, hasSuccess := fields["success"]
	data, hasData := fields["data"]
	if hasSuccess && hasData {
		return data
	}
	return body
}

func statusText(statusCode int, status string) string {
	// net/http formats Status as "404 Not Found".
	if text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(statusCode))); text != "" {
		return text
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// errorBody covers the error shapes the service returns: a flat
// {error, message, code} object or an envelope with a nested error object.
type errorBody struct {
	Error            json.RawMessage `json:"error"`
	Message          string          `json:"message"`
	Code             string          `json:"code"`
	Details          map[string]any  `json:"details"`
	RequestID        string          `json:"requestId"`
	RetryAfter       json.RawMessage `json:"retryAfter"`
	CreditsRequired  *int            `json:"creditsRequired"`
	CreditsRemaining *int            `json:"creditsRemaining"`
}

type nestedError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func parseErrorResponse(statusCode int, body []byte, requestID string) error {
	var eb errorBody
	// Non-object bodies leave every field empty.
	_ = json.Unmarshal(body, &eb)

	info := apierrors.ErrorInfo{
		Code:      eb.Code,
		Details:   eb.Details,
		RequestID: requestID,
	}
	if eb.RequestID != "" {
		info.RequestID = eb.RequestID
	}

	var errMessage string
	if len(eb.Error) > 0 {
		var s string
		var nested nestedError
		switch {
		case json.Unmarshal(eb.Error, &s) == nil:
			errMessage = s
		case json.Unmarshal(eb.Error, &nested) == nil:
			errMessage = nested.Message
			if info.Code == "" {
				info.Code = nested.Code
			}
			if info.Details == nil {
				info.Details = nested.Details
			}
		}
	}

	info.Message = firstNonEmpty(errMessage, eb.Message, defaultMessage(statusCode))
	if statusCode == http.StatusNotFound {
		info.Message = msgNotFound
	}

	classified := apierrors.FromStatus(statusCode, info)
	switch e := classified.(type) {
	case *apierrors.RateLimitError:
		e.RetryAfter = parseRetryAfter(eb.RetryAfter)
		if e.RetryAfter == nil {
			e.RetryAfter = detailInt(info.Details, "retryAfter")
		}
	case *apierrors.InsufficientCreditsError:
		e.CreditsRequired = intOr(eb.CreditsRequired, detailInt(info.Details, "creditsRequired"), defaultCreditsRequired)
		e.CreditsRemaining = intOr(eb.CreditsRemaining, detailInt(info.Details, "creditsRemaining"), defaultCreditsRemaining)
	}
	return classified
}

func defaultMessage(statusCode int) string {
	switch {
	case statusCode == http.StatusUnauthorized:
		return msgUnauthorized
	case statusCode == http.StatusPaymentRequired:
		return msgInsufficientCredits
	case statusCode == http.StatusForbidden:
		return msgForbidden
	case statusCode == http.StatusTooManyRequests:
		return msgRateLimited
	default:
		return fmt.Sprintf("Request failed with status %d", statusCode)
	}
}

// parseRetryAfter accepts a JSON number or numeric string. Anything else
// yields nil rather than an error.
func parseRetryAfter(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		v := int(n)
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			v := int(f)
			return &v
		}
	}
	return nil
}

func detailInt(details map[string]any, key string) *int {
	if details == nil {
		return nil
	}
	if f, ok := details[key].(float64); ok {
		v := int(f)
		return &v
	}
	return nil
}

func intOr(primary, secondary *int, fallback int) int {
	if primary != nil {
		return *primary
	}
	if secondary != nil {
		return *secondary
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
