package depth

import (
	"math"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Params tunes the depth cues. Pixel-valued fields are given for a
// ReferenceSize background and scaled by [Params.Scaled].
type Params struct {
	// ReferenceSize is the background short side the pixel values were
	// tuned for. Zero disables scaling.
	ReferenceSize int `toml:"reference_size"`

	ShadowAlpha   uint8   `toml:"shadow_alpha"`
	ShadowOffsetX int     `toml:"shadow_offset_x"`
	ShadowOffsetY int     `toml:"shadow_offset_y"`
	ShadowBlur    float64 `toml:"shadow_blur"`

	// OcclusionRadius is the horizontal radius relative to subject height.
	OcclusionRadius float64 `toml:"occlusion_radius"`
	// OcclusionFlatten is the vertical radius relative to the horizontal one.
	OcclusionFlatten float64 `toml:"occlusion_flatten"`
	OcclusionAlpha   uint8   `toml:"occlusion_alpha"`
	OcclusionBlur    float64 `toml:"occlusion_blur"`
	// OcclusionBand is the bottom share of the subject treated as feet.
	OcclusionBand float64 `toml:"occlusion_band"`

	SamplePadding int     `toml:"sample_padding"`
	TintMix       float64 `toml:"tint_mix"`

	GlowBlur    float64 `toml:"glow_blur"`
	GlowGain    float64 `toml:"glow_gain"`
	GlowOpacity float64 `toml:"glow_opacity"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		ReferenceSize: 800,

		ShadowAlpha:   120,
		ShadowOffsetX: 10,
		ShadowOffsetY: 12,
		ShadowBlur:    20,

		OcclusionRadius:  0.15,
		OcclusionFlatten: 0.3,
		OcclusionAlpha:   110,
		OcclusionBlur:    15,
		OcclusionBand:    0.08,

		SamplePadding: 50,
		TintMix:       0.15,

		GlowBlur:    3,
		GlowGain:    1.3,
		GlowOpacity: 0.25,
	}
}

// Scaled returns p with pixel values adjusted to a bgW × bgH background.
func (p Params) Scaled(bgW, bgH int) Params {
	if p.ReferenceSize <= 0 {
		return p
	}
	k := float64(min(bgW, bgH)) / float64(p.ReferenceSize)
	scale := func(v int) int { return int(math.Round(float64(v) * k)) }

	p.ShadowOffsetX = scale(p.ShadowOffsetX)
	p.ShadowOffsetY = scale(p.ShadowOffsetY)
	p.ShadowBlur *= k
	p.OcclusionBlur *= k
	p.SamplePadding = scale(p.SamplePadding)
	p.GlowBlur *= k
	p.ReferenceSize = 0
	return p
}

// Validate rejects values the cues cannot render.
func (p Params) Validate() error {
	switch {
	case p.ReferenceSize < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "reference size must not be negative")
	case p.ShadowBlur < 0 || p.OcclusionBlur < 0 || p.GlowBlur < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "blur radii must not be negative")
	case p.OcclusionRadius < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "occlusion radius must not be negative")
	case p.OcclusionFlatten <= 0 || p.OcclusionFlatten > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "occlusion flatten must be in (0, 1]")
	case p.OcclusionBand < 0 || p.OcclusionBand > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "occlusion band must be in [0, 1]")
	case p.SamplePadding < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "sample padding must not be negative")
	case p.TintMix < 0 || p.TintMix > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "tint mix must be in [0, 1]")
	case p.GlowGain < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "glow gain must not be negative")
	case p.GlowOpacity < 0 || p.GlowOpacity > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "glow opacity must be in [0, 1]")
	}
	return nil
}
