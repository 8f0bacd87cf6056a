// Package composite places a foreground subject on a background photo and
// renders the depth cues and grade in one deterministic pass.
//
// The pass runs on the caller's goroutine and touches no shared state:
//
//	res, err := composite.Composite(fg, bg, composite.DefaultOptions())
//	// res.Surface is the finished image, res.Placement the subject rect.
//
// A depth cue that cannot be rendered is logged and skipped; the
// composite still succeeds and lists the cue in Result.Skipped.
package composite

import (
	"image"

	"github.com/draddo11/Holiday/pkg/core/depth"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/finish"
	"github.com/draddo11/Holiday/pkg/core/layer"
	"github.com/draddo11/Holiday/pkg/core/place"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// SkippedCue names a cue that failed and why.
type SkippedCue struct {
	Cue    string `json:"cue"`
	Reason string `json:"reason"`
}

// Result is a finished composite.
type Result struct {
	Surface   *surface.Surface
	Placement surface.Rect
	Applied   []string
	Skipped   []SkippedCue
}

// Rendered is a composite encoded for delivery.
type Rendered struct {
	*Result
	Data   []byte
	Format encode.Format
	MIME   string
}

// DataURI returns the encoded image as a data URI.
func (r *Rendered) DataURI() string {
	return encode.DataURI(r.MIME, r.Data)
}

// Composite places fg on bg, renders the enabled cues and grades the
// result. Invalid options or zero-sized inputs are InvalidInput.
func Composite(fg, bg *surface.Surface, opts Options) (*Result, error) {
	if fg == nil || bg == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "composite needs a foreground and a background")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rect, err := place.PlaceSurface(fg, bg.Width(), bg.Height(), opts.placement())
	if err != nil {
		return nil, err
	}
	subject, err := place.Resize(fg, rect)
	if err != nil {
		return nil, err
	}

	stack, err := layer.NewStack(bg)
	if err != nil {
		return nil, err
	}
	p := opts.Depth.Scaled(bg.Width(), bg.Height())
	res := &Result{Placement: rect}
	logger := opts.logger()

	cue := func(name string, enabled bool, build func() (layer.Layer, error)) {
		if !enabled {
			return
		}
		l, err := build()
		if err == nil {
			err = stack.Push(l)
		}
		if err != nil {
			logger.Warn("depth cue skipped", "cue", name, "err", err)
			res.Skipped = append(res.Skipped, SkippedCue{Cue: name, Reason: apperr.UserMessage(err)})
			return
		}
		res.Applied = append(res.Applied, name)
	}

	cue(depth.CueShadow, opts.ShadowEnabled, func() (layer.Layer, error) {
		return depth.Shadow(subject, rect, p)
	})
	cue(depth.CueOcclusion, opts.OcclusionEnabled, func() (layer.Layer, error) {
		return depth.Occlusion(rect, p)
	})

	if opts.ColorMatchEnabled {
		tinted, err := colorMatch(bg, subject, rect, p)
		if err != nil {
			logger.Warn("depth cue skipped", "cue", depth.CueColorMatch, "err", err)
			res.Skipped = append(res.Skipped, SkippedCue{Cue: depth.CueColorMatch, Reason: apperr.UserMessage(err)})
		} else {
			subject = tinted
			res.Applied = append(res.Applied, depth.CueColorMatch)
		}
	}

	if err := stack.Push(layer.Layer{
		Kind:    layer.Subject,
		Surface: subject,
		Offset:  image.Pt(rect.X, rect.Y),
		Mode:    layer.Over,
		Opacity: 1,
	}); err != nil {
		return nil, err
	}

	cue(depth.CueGlow, opts.GlowEnabled, func() (layer.Layer, error) {
		return depth.Glow(subject, rect, p)
	})

	out, err := finish.Finish(stack, opts.Finish)
	if err != nil {
		return nil, err
	}
	res.Surface = out
	return res, nil
}

func colorMatch(bg, subject *surface.Surface, rect surface.Rect, p depth.Params) (*surface.Surface, error) {
	sample, err := depth.Sample(bg, rect, p)
	if err != nil {
		return nil, err
	}
	return depth.Tint(subject, sample, p)
}

// Render composites and encodes in the requested output format.
func Render(fg, bg *surface.Surface, opts Options) (*Rendered, error) {
	res, err := Composite(fg, bg, opts)
	if err != nil {
		return nil, err
	}
	f, err := encode.ParseFormat(string(opts.OutputFormat))
	if err != nil {
		return nil, err
	}
	data, err := encode.Encode(res.Surface.Image(), f, opts.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return &Rendered{Result: res, Data: data, Format: f, MIME: encode.MIME(f)}, nil
}

// SkippedNames lists the skipped cue names.
func (r *Result) SkippedNames() []string {
	names := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		names[i] = s.Cue
	}
	return names
}
