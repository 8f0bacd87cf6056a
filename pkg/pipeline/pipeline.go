// Package pipeline provides the photo pipeline for travelsnap.
//
// This package implements the complete acquire → segment → composite →
// encode pipeline used by both the CLI and the HTTP API. By centralizing
// this logic, every entry point caches, logs and validates the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Acquire: fetch or decode the foreground and background concurrently
//  2. Segment: remove the foreground backdrop unless it is already cut out
//  3. Composite: place, shade and grade (pkg/core/composite)
//  4. Encode: PNG or JPEG bytes
//
// The encoded artifact is cached under a hash of both input images and
// every option that changes the output, so a repeated request skips
// stages 2–4.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Foreground: userImageDataURI,
//	    Background: "https://upload.wikimedia.org/eiffel.jpg",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Image
package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/core/composite"
	"github.com/draddo11/Holiday/pkg/core/depth"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/finish"
	"github.com/draddo11/Holiday/pkg/core/place"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Inputs: data URIs, URLs or (CLI only) file paths.
	Foreground string `json:"foreground"`
	Background string `json:"background"`

	// Placement
	HeightFraction float64  `json:"height_fraction,omitempty"`
	Anchor         string   `json:"anchor,omitempty"`
	MarginFraction *float64 `json:"margin_fraction,omitempty"`

	// Depth cues are on unless disabled.
	NoShadow     bool `json:"no_shadow,omitempty"`
	NoOcclusion  bool `json:"no_occlusion,omitempty"`
	NoColorMatch bool `json:"no_color_match,omitempty"`
	NoGlow       bool `json:"no_glow,omitempty"`

	// Output
	Format  string `json:"format,omitempty"`
	Quality int    `json:"quality,omitempty"`

	SkipSegmentation bool `json:"skip_segmentation,omitempty"`
	Refresh          bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Depth  *depth.Params  `json:"-"`
	Finish *finish.Params `json:"-"`
	Logger *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Image is the encoded composite.
	Image  []byte
	Format encode.Format
	MIME   string

	Width     int
	Height    int
	Placement surface.Rect
	Applied   []string
	Skipped   []composite.SkippedCue

	// InputHash is the content hash of both input images.
	InputHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// DataURI returns the image as a data URI.
func (r *Result) DataURI() string { return encode.DataURI(r.MIME, r.Image) }

// CueSegmentation is reported in Result.Skipped when every background
// remover failed and the foreground was composited as is.
const CueSegmentation = "segmentation"

// SkippedNames lists the skipped cue names.
func (r *Result) SkippedNames() []string {
	names := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		names[i] = s.Cue
	}
	return names
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputBytes    int
	OutputBytes   int
	AcquireTime   time.Duration
	SegmentTime   time.Duration
	CompositeTime time.Duration
	EncodeTime    time.Duration
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	ArtifactHit bool   // Whether the encoded image came from cache
	Remover     string // Background remover used; empty when skipped
}

// artifact is the cached form of a Result.
type artifact struct {
	Image     []byte                 `json:"image"`
	Format    encode.Format          `json:"format"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	Placement surface.Rect           `json:"placement"`
	Applied   []string               `json:"applied"`
	Skipped   []composite.SkippedCue `json:"skipped,omitempty"`
}

func (a *artifact) result() *Result {
	return &Result{
		Image:     a.Image,
		Format:    a.Format,
		MIME:      encode.MIME(a.Format),
		Width:     a.Width,
		Height:    a.Height,
		Placement: a.Placement,
		Applied:   a.Applied,
		Skipped:   a.Skipped,
	}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Foreground) == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "foreground image is required")
	}
	if strings.TrimSpace(o.Background) == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "background image is required")
	}
	if err := o.SetDefaults(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills and checks every option except the inputs. It is
// used directly when the caller already holds decoded surfaces.
func (o *Options) SetDefaults() error {
	if o.HeightFraction == 0 {
		o.HeightFraction = composite.DefaultHeightFraction
	}
	anchor, err := place.ParseAnchor(o.Anchor)
	if err != nil {
		return err
	}
	o.Anchor = string(anchor)
	if o.MarginFraction == nil {
		m := composite.DefaultMarginFraction
		o.MarginFraction = &m
	}
	format, err := encode.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	o.Format = string(format)
	if o.Format == string(encode.JPEG) {
		o.Quality = encode.Quality(o.Quality)
	} else {
		o.Quality = 0
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.CompositeOptions().Validate()
}

// CompositeOptions returns the core options for this run.
func (o *Options) CompositeOptions() composite.Options {
	c := composite.DefaultOptions()
	c.HeightFraction = o.HeightFraction
	c.Anchor = place.Anchor(o.Anchor)
	if o.MarginFraction != nil {
		c.MarginFraction = *o.MarginFraction
	}
	c.ShadowEnabled = !o.NoShadow
	c.OcclusionEnabled = !o.NoOcclusion
	c.ColorMatchEnabled = !o.NoColorMatch
	c.GlowEnabled = !o.NoGlow
	c.OutputFormat = encode.Format(o.Format)
	if o.Quality > 0 {
		c.JPEGQuality = o.Quality
	}
	if o.Depth != nil {
		c.Depth = *o.Depth
	}
	if o.Finish != nil {
		c.Finish = *o.Finish
	}
	c.Logger = o.Logger
	return c
}

// ArtifactKeyOpts returns cache key options for the encoded composite.
func (o *Options) ArtifactKeyOpts(remover string) cache.ArtifactKeyOpts {
	c := o.CompositeOptions()
	params, _ := json.Marshal(struct {
		D depth.Params
		F finish.Params
	}{c.Depth, c.Finish})
	return cache.ArtifactKeyOpts{
		HeightFraction: c.HeightFraction,
		Anchor:         string(c.Anchor),
		Margin:         c.MarginFraction,
		Shadow:         c.ShadowEnabled,
		Occlusion:      c.OcclusionEnabled,
		ColorMatch:     c.ColorMatchEnabled,
		Glow:           c.GlowEnabled,
		Format:         string(c.OutputFormat),
		Quality:        o.Quality,
		Remover:        remover,
		Params:         cache.Hash(params),
	}
}
