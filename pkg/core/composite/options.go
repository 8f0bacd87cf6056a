package composite

import (
	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/core/depth"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/finish"
	"github.com/draddo11/Holiday/pkg/core/place"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Default placement values.
const (
	DefaultHeightFraction = 0.6
	DefaultMarginFraction = 0.05
)

// Options configures a composite.
type Options struct {
	HeightFraction float64
	Anchor         place.Anchor
	MarginFraction float64

	ShadowEnabled     bool
	OcclusionEnabled  bool
	ColorMatchEnabled bool
	GlowEnabled       bool

	OutputFormat encode.Format
	JPEGQuality  int

	Depth  depth.Params
	Finish finish.Params

	// Logger receives skipped-cue warnings; nil means log.Default().
	Logger *log.Logger
}

// DefaultOptions enables every cue with the tuned parameters and a
// bottom-anchored subject at 60% of the background height.
func DefaultOptions() Options {
	return Options{
		HeightFraction:    DefaultHeightFraction,
		Anchor:            place.Bottom,
		MarginFraction:    DefaultMarginFraction,
		ShadowEnabled:     true,
		OcclusionEnabled:  true,
		ColorMatchEnabled: true,
		GlowEnabled:       true,
		OutputFormat:      encode.PNG,
		JPEGQuality:       encode.DefaultJPEGQuality,
		Depth:             depth.DefaultParams(),
		Finish:            finish.DefaultParams(),
	}
}

// Validate checks every field without applying defaults.
func (o Options) Validate() error {
	if err := apperr.ValidateFraction("height fraction", o.HeightFraction); err != nil {
		return err
	}
	if o.MarginFraction < 0 || o.MarginFraction >= 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "margin fraction must be in [0, 1), got %g", o.MarginFraction)
	}
	if _, err := place.ParseAnchor(string(o.Anchor)); err != nil {
		return err
	}
	if _, err := encode.ParseFormat(string(o.OutputFormat)); err != nil {
		return err
	}
	if o.JPEGQuality < 0 || o.JPEGQuality > 100 {
		return apperr.New(apperr.ErrCodeInvalidInput, "jpeg quality must be in 1..100, got %d", o.JPEGQuality)
	}
	if err := o.Depth.Validate(); err != nil {
		return err
	}
	return o.Finish.Validate()
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o Options) placement() place.Spec {
	anchor, _ := place.ParseAnchor(string(o.Anchor))
	return place.Spec{HeightFraction: o.HeightFraction, Anchor: anchor, MarginFraction: o.MarginFraction}
}
