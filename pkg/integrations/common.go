package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the upstream resource doesn't exist.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = cache.ErrNetwork

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrNotConfigured is returned by clients constructed without credentials.
	ErrNotConfigured = errors.New("integration not configured")
)

// NewHTTPClient creates an HTTP client with the standard API timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewHTTPClientWithTimeout creates an HTTP client with a custom timeout,
// for slow upstreams such as image generation.
func NewHTTPClientWithTimeout(d time.Duration) *http.Client {
	if d <= 0 {
		d = httpTimeout
	}
	return &http.Client{Timeout: d}
}

// Classify converts an integration error into a structured error with the
// given fallback code. Not-found, rate-limit and configuration failures
// keep their own codes.
func Classify(err error, code apperr.Code, format string, args ...any) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound):
		code = apperr.ErrCodeNotFound
	case errors.Is(err, ErrRateLimited):
		code = apperr.ErrCodeRateLimited
	case errors.Is(err, ErrNotConfigured):
		code = apperr.ErrCodeUnavailable
	}
	return apperr.Wrap(code, err, format, args...)
}

// NormalizeQuery trims and collapses whitespace in a free-text query.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// URLEncode percent-encodes a string for use in URLs.
func URLEncode(s string) string { return url.QueryEscape(s) }
