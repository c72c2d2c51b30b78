// Package api provides the request engine used by every pagecraft service.
// It handles authentication, request/response serialization, per-attempt
// timeouts and automatic retry with exponential backoff for transient failures.
//
// # Client Creation
//
// [New] takes the API key and functional options. The key is sent as a
// bearer token in the Authorization header on every request.
//
// # Retry Behavior
//
// A call is attempted up to [Client.MaxRetries]+1 times. Network failures,
// attempt timeouts and 5xx responses are retried; any 4xx response is
// returned immediately. The delay before retry n (0-indexed) is
// 1s * 2^n, capped at 10s: 1s, 2s, 4s, 8s, 10s, ...
//
// # Timeouts
//
// Each attempt runs under its own deadline ([WithTimeout], or
// [WithRequestTimeout] per call). When the deadline fires the in-flight
// request is cancelled and the attempt fails with a timeout error. The
// caller's context spans every attempt and the backoff waits; cancelling it
// stops the call.
//
// # Responses
//
// Bodies of the form {"success": ..., "data": ...} are unwrapped to data.
// Any other JSON body is decoded as-is. A 2xx response whose body is empty
// or not JSON leaves the result untouched.
//
// # Error Handling
//
// All failures are values from package apierrors. Use errors.As to reach the
// concrete variant, or errors.Is with the sentinel errors:
//
//	var rl *apierrors.RateLimitError
//	if errors.As(err, &rl) && rl.RetryAfter != nil {
//	    // wait *rl.RetryAfter seconds
//	}
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
