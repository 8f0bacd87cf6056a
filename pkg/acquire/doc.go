// Package acquire turns image references into decoded surfaces.
//
// A reference is one of:
//
//   - a base64 data URI (or bare base64), as uploaded by the web client
//   - an http(s) URL, fetched with a [Fetcher]
//   - a local file path, when [Acquirer.AllowFiles] is set (CLI only)
//
// Foreground and background are acquired concurrently by [Acquirer.Pair].
// Background URLs are cached by content under [cache.Keyer.BackgroundKey]
// and concurrent requests for the same URL share one fetch.
//
// Every failure to fetch is a NETWORK_ERROR; every failure to decode is
// an INVALID_INPUT. Neither is retried here.
package acquire
