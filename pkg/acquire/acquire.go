package acquire

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/observability"
)

// DefaultBackgroundTTL is how long fetched backgrounds stay cached.
const DefaultBackgroundTTL = 24 * time.Hour

// SharedFetchTimeout bounds a background fetch shared between requests.
const SharedFetchTimeout = 60 * time.Second

// Input is an acquired image: the raw bytes and the decoded surface.
// The bytes are kept so callers can hash or forward them.
type Input struct {
	Data    []byte
	Surface *surface.Surface
}

// Acquirer resolves references to images. It is safe for concurrent use.
type Acquirer struct {
	Fetcher Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Logger  *log.Logger

	// AllowFiles permits local paths as references.
	AllowFiles bool

	group singleflight.Group
}

// New returns an Acquirer. Nil arguments get defaults: an HTTP fetcher,
// no caching and the default keyer.
func New(f Fetcher, c cache.Cache, keyer cache.Keyer) *Acquirer {
	if f == nil {
		f = NewHTTPFetcher(nil)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Acquirer{Fetcher: f, Cache: c, Keyer: keyer, TTL: DefaultBackgroundTTL, Logger: log.Default()}
}

// Bytes returns the raw bytes behind ref without decoding them.
func (a *Acquirer) Bytes(ctx context.Context, ref string) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "missing image reference")
	case isURL(ref):
		return a.Fetcher.Fetch(ctx, ref)
	case strings.HasPrefix(ref, "data:"):
		_, data, err := encode.ParseDataURI(ref)
		return data, err
	case a.AllowFiles:
		if _, err := os.Stat(ref); err == nil {
			data, err := os.ReadFile(ref)
			if err != nil {
				return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read %s", ref)
			}
			return data, nil
		}
	}
	_, data, err := encode.ParseDataURI(ref)
	return data, err
}

// Foreground acquires the subject photo. It is never cached: uploads are
// one-off.
func (a *Acquirer) Foreground(ctx context.Context, ref string) (*Input, error) {
	return a.load(ctx, "foreground", ref, false)
}

// Background acquires the landmark photo. URL backgrounds are cached and
// concurrent fetches of one URL are collapsed.
func (a *Acquirer) Background(ctx context.Context, ref string) (*Input, error) {
	return a.load(ctx, "background", ref, isURL(ref))
}

// Pair acquires foreground and background concurrently. The first
// failure stops waiting on the other; a shared background fetch keeps
// running for its other callers.
func (a *Acquirer) Pair(ctx context.Context, fgRef, bgRef string) (fg, bg *Input, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fg, err = a.Foreground(ctx, fgRef)
		return err
	})
	g.Go(func() error {
		var err error
		bg, err = a.Background(ctx, bgRef)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fg, bg, nil
}

func (a *Acquirer) load(ctx context.Context, source, ref string, cached bool) (*Input, error) {
	hooks := observability.Pipeline()
	hooks.OnAcquireStart(ctx, source)
	start := time.Now()

	var data []byte
	var err error
	if cached {
		data, err = a.cachedBytes(ctx, strings.TrimSpace(ref))
	} else {
		data, err = a.Bytes(ctx, ref)
	}
	if err != nil {
		hooks.OnAcquireComplete(ctx, source, 0, time.Since(start), err)
		return nil, err
	}

	s, err := surface.Decode(data)
	hooks.OnAcquireComplete(ctx, source, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	a.logger().Debug("acquired image", "source", source, "bytes", len(data),
		"size", s.Bounds().Size(), "duration", time.Since(start))
	return &Input{Data: data, Surface: s}, nil
}

func (a *Acquirer) cachedBytes(ctx context.Context, url string) ([]byte, error) {
	key := a.Keyer.BackgroundKey(url)
	if data, ok, _ := a.Cache.Get(ctx, key); ok && len(data) > 0 {
		observability.Cache().OnCacheHit(ctx, "background")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "background")

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := a.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()
		data, err := a.Fetcher.Fetch(fctx, url)
		if err != nil {
			return nil, err
		}
		if err := a.Cache.Set(fctx, key, data, a.TTL); err == nil {
			observability.Cache().OnCacheSet(fctx, "background", len(data))
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctx.Err(), "fetch %s", url)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			a.logger().Debug("shared background fetch", "url", url)
		}
		return res.Val.([]byte), nil
	}
}

func (a *Acquirer) logger() *log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.Default()
}

func isURL(ref string) bool {
	ref = strings.TrimSpace(ref)
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
