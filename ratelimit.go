package pagecraft

import (
	"net/http"
	"strconv"
	"time"
)

// Rate-limit response headers.
const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// RateLimit is the quota state reported by the API.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// ParseRateLimit reads the X-RateLimit-* headers captured with
// WithResponseHeaders. ok is false when the response carried none.
// Reset is given by the API in Unix seconds.
func ParseRateLimit(h http.Header) (rl RateLimit, ok bool) {
	if h == nil {
		return rl, false
	}
	if v, err := strconv.Atoi(h.Get(headerRateLimit)); err == nil {
		rl.Limit = v
		ok = true
	}
	if v, err := strconv.Atoi(h.Get(headerRateRemaining)); err == nil {
		rl.Remaining = v
		ok = true
	}
	if v, err := strconv.ParseInt(h.Get(headerRateReset), 10, 64); err == nil {
		rl.Reset = time.Unix(v, 0)
		ok = true
	}
	return rl, ok
}
