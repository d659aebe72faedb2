package ai

import (
	"fmt"
	"net/http"
	"strings"
)

// UpstreamError reports a failed call to the external completion service,
// carrying the upstream status for server-side logging. Callers surface a
// generic failure to end users; the detail stays in logs.
type UpstreamError struct {
	Status int
	Detail string
	err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion service failed (status %d): %s", e.Status, e.Detail)
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

// RateLimited reports whether the external service itself rejected the call
// for quota reasons. Distinct from this service's own throttling.
func (e *UpstreamError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// wrapUpstream normalizes a provider error into an UpstreamError. Providers
// are wrapped by the model layer, so the status is recovered best-effort from
// the error text; it only informs logging, never the client-facing mapping.
func wrapUpstream(err error) *UpstreamError {
	status := http.StatusBadGateway
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "429") || strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota"):
		status = http.StatusTooManyRequests
	case strings.Contains(msg, "401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid api key"):
		status = http.StatusUnauthorized
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		status = http.StatusGatewayTimeout
	}
	return &UpstreamError{Status: status, Detail: msg, err: err}
}
