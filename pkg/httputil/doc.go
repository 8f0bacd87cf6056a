// Package httputil provides the HTTP plumbing shared by the integration
// clients.
//
//   - [Retry] repeats an operation with exponential backoff while it fails
//     with a [cache.RetryableError] (transport errors and 5xx responses).
//   - [Throttle] spaces calls to a rate-limited upstream, such as the
//     image-generation API, by a minimum interval.
//
// Retry never runs inside the compositing core; only integration clients
// use it.
//
// [cache.RetryableError]: github.com/draddo11/Holiday/pkg/cache.RetryableError
package httputil
