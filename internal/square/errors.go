package square

import (
	"fmt"
	"net/http"
	"strings"
)

// UpstreamError reports a non-2xx response from the Square API, carrying the
// upstream error detail when present or the HTTP status text otherwise.
type UpstreamError struct {
	StatusCode int
	Code       string
	Detail     string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	detail := strings.TrimSpace(e.Detail)
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("square: %s (%s, status %d)", detail, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("square: %s (status %d)", detail, e.StatusCode)
}

// NotFound reports whether the upstream rejected the call because the
// resource type is not configured for the merchant.
func (e *UpstreamError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Message returns the user-presentable error detail.
func (e *UpstreamError) Message() string {
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		return detail
	}
	return http.StatusText(e.StatusCode)
}
