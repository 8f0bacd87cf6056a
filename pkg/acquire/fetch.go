package acquire

import (
	"context"
	"net/http"

	"github.com/draddo11/Holiday/pkg/cache"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations"
)

// Fetcher retrieves raw bytes for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP with the shared integration client.
// Responses are not cached here; [Acquirer] caches decoded inputs.
type HTTPFetcher struct {
	client *integrations.Client
}

// NewHTTPFetcher returns a fetcher using h, or the default API client
// when h is nil.
func NewHTTPFetcher(h *http.Client) *HTTPFetcher {
	c := integrations.NewClient(nil, "fetch:", 0, map[string]string{
		"User-Agent": "travelsnap/1.0",
		"Accept":     "image/*",
	})
	c.SetHTTPClient(h)
	return &HTTPFetcher{client: c}
}

// Fetch returns the body of url. Any non-2xx status or transport failure
// is a NETWORK_ERROR.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := apperr.ValidateURL(url); err != nil {
		return nil, err
	}
	data, err := f.client.GetBytes(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctx.Err(), "fetch %s", url)
		}
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "fetch %s", url)
	}
	if len(data) == 0 {
		return nil, apperr.Wrap(apperr.ErrCodeNetwork, cache.ErrNotFound, "fetch %s: empty body", url)
	}
	return data, nil
}

// FetchFunc adapts a function to [Fetcher].
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }
