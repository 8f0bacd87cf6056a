package pipeline

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/acquire"
	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/core/composite"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/observability"
	"github.com/draddo11/Holiday/pkg/segment"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, acquirer and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Acquirer *acquire.Acquirer
	Remover  segment.Remover
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
//
// The runner fetches over HTTP and removes backdrops locally; replace
// Acquirer or Remover to change either.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	acq := acquire.New(nil, c, keyer)
	acq.TTL = cache.TTLBackground
	acq.Logger = logger
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Acquirer: acq,
		Remover:  segment.NewChain(logger, segment.Passthrough{}, segment.DefaultCornerKey()),
	}
}

// Execute runs the complete acquire → segment → composite → encode
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Acquire
	acquireStart := time.Now()
	fg, bg, err := r.Acquirer.Pair(ctx, opts.Foreground, opts.Background)
	if err != nil {
		return nil, err
	}
	acquireTime := time.Since(acquireStart)
	inputHash := cache.HashAll(fg.Data, bg.Data)

	r.Logger.Info("acquired inputs",
		"foreground", fg.Surface.Bounds().Size(),
		"background", bg.Surface.Bounds().Size(),
		"duration", acquireTime)

	removerName := ""
	if !opts.SkipSegmentation && !fg.Surface.HasTransparency() && r.Remover != nil {
		removerName = r.Remover.Name()
	}
	cacheKey := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(removerName))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var a artifact
			if json.Unmarshal(data, &a) == nil && len(a.Image) > 0 {
				observability.Cache().OnCacheHit(ctx, "artifact")
				result := a.result()
				result.InputHash = inputHash
				result.Stats = Stats{InputBytes: len(fg.Data) + len(bg.Data), OutputBytes: len(a.Image), AcquireTime: acquireTime}
				result.CacheInfo = CacheInfo{ArtifactHit: true, Remover: removerName}
				r.Logger.Info("artifact from cache", "hash", inputHash[:12])
				return result, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	result, err := r.Render(ctx, fg.Surface, bg.Surface, opts)
	if err != nil {
		return nil, err
	}
	result.InputHash = inputHash
	result.Stats.InputBytes = len(fg.Data) + len(bg.Data)
	result.Stats.AcquireTime = acquireTime

	// A remover outage may be transient; only cache fully segmented results.
	if slices.Contains(result.SkippedNames(), CueSegmentation) {
		return result, nil
	}
	if data, err := json.Marshal(artifact{
		Image:     result.Image,
		Format:    result.Format,
		Width:     result.Width,
		Height:    result.Height,
		Placement: result.Placement,
		Applied:   result.Applied,
		Skipped:   result.Skipped,
	}); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return result, nil
}

// Render runs stages 2–4 on decoded surfaces, without caching.
func (r *Runner) Render(ctx context.Context, fg, bg *surface.Surface, opts Options) (*Result, error) {
	if fg == nil || bg == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "foreground and background are required")
	}
	r.applyLogger(&opts)
	if err := opts.SetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}
	var segSkip *composite.SkippedCue

	// Stage 2: Segment
	if !opts.SkipSegmentation && !fg.HasTransparency() && r.Remover != nil {
		segStart := time.Now()
		cut, err := segment.Run(ctx, r.Remover, fg)
		result.Stats.SegmentTime = time.Since(segStart)
		switch {
		case err == nil:
			fg = cut
			result.CacheInfo.Remover = r.Remover.Name()
			r.Logger.Info("removed background", "remover", r.Remover.Name(), "duration", result.Stats.SegmentTime)
		case ctx.Err() != nil:
			return nil, err
		default:
			// The subject is composited with its own backdrop.
			segSkip = &composite.SkippedCue{Cue: CueSegmentation, Reason: err.Error()}
			r.Logger.Warn("background removal failed, compositing unsegmented", "remover", r.Remover.Name(), "err", err)
		}
	}

	// Stage 3: Composite
	hooks := observability.Pipeline()
	hooks.OnCompositeStart(ctx, bg.Width(), bg.Height())
	compStart := time.Now()
	res, err := composite.Composite(fg, bg, opts.CompositeOptions())
	result.Stats.CompositeTime = time.Since(compStart)
	if err != nil {
		hooks.OnCompositeComplete(ctx, nil, nil, result.Stats.CompositeTime, err)
		return nil, err
	}
	hooks.OnCompositeComplete(ctx, res.Applied, res.SkippedNames(), result.Stats.CompositeTime, nil)
	r.Logger.Info("composited",
		"placement", res.Placement,
		"applied", res.Applied,
		"skipped", res.SkippedNames(),
		"duration", result.Stats.CompositeTime)

	// Stage 4: Encode
	encStart := time.Now()
	format := encode.Format(opts.Format)
	data, err := encode.Encode(res.Surface.Image(), format, opts.Quality)
	if err != nil {
		return nil, err
	}
	result.Stats.EncodeTime = time.Since(encStart)
	result.Stats.OutputBytes = len(data)

	result.Image = data
	result.Format = format
	result.MIME = encode.MIME(format)
	result.Width = res.Surface.Width()
	result.Height = res.Surface.Height()
	result.Placement = res.Placement
	result.Applied = res.Applied
	result.Skipped = res.Skipped
	if segSkip != nil {
		result.Skipped = append([]composite.SkippedCue{*segSkip}, result.Skipped...)
	}

	r.Logger.Debug("encoded", "format", format, "bytes", len(data), "duration", result.Stats.EncodeTime)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
