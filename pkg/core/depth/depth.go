// Package depth renders the cues that seat a cut-out subject in a scene:
// a cast shadow, ambient occlusion at the feet, a tint toward the
// surrounding colors and a soft edge glow.
//
// Every function is pure. Shadow and Occlusion return layers that go
// beneath the subject; Glow returns a layer above it.
package depth

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/draddo11/Holiday/pkg/core/layer"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Cue names reported by the compositor.
const (
	CueShadow     = "shadow"
	CueOcclusion  = "occlusion"
	CueColorMatch = "color_match"
	CueGlow       = "glow"
)

// Shadow builds the cast shadow: the subject silhouette in black at
// ShadowAlpha, shifted by the shadow offset and blurred.
func Shadow(subject *surface.Surface, rect surface.Rect, p Params) (layer.Layer, error) {
	if subject == nil || rect.Empty() {
		return layer.Layer{}, apperr.New(apperr.ErrCodeInvalidInput, "shadow needs a placed subject")
	}
	pad := blurPad(p.ShadowBlur)
	src := subject.Image()
	w, h := subject.Width(), subject.Height()

	mask := image.NewNRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	k := float64(p.ShadowAlpha) / 255
	for y := 0; y < h; y++ {
		si := src.PixOffset(0, y)
		di := mask.PixOffset(pad, y+pad)
		for x := 0; x < w; x++ {
			mask.Pix[di+3] = surface.Round8(float64(src.Pix[si+3]) * k)
			si += 4
			di += 4
		}
	}

	s, err := surface.Adopt(blur(mask, p.ShadowBlur))
	if err != nil {
		return layer.Layer{}, err
	}
	return layer.Layer{
		Kind:    layer.Shadow,
		Surface: s,
		Offset:  image.Pt(rect.X+p.ShadowOffsetX-pad, rect.Y+p.ShadowOffsetY-pad),
		Mode:    layer.Over,
		Opacity: 1,
	}, nil
}

// Occlusion builds the contact darkening under the subject: a flattened
// black ellipse centered in the bottom band of rect, blurred.
func Occlusion(rect surface.Rect, p Params) (layer.Layer, error) {
	if rect.Empty() {
		return layer.Layer{}, apperr.New(apperr.ErrCodeInvalidInput, "occlusion needs a placement")
	}
	rx := p.OcclusionRadius * float64(rect.Height)
	ry := rx * p.OcclusionFlatten
	if rx < 1 || ry < 0.5 {
		return layer.Layer{}, apperr.New(apperr.ErrCodeInvalidInput, "occlusion ellipse %.1fx%.1f too small", rx, ry)
	}

	band := p.OcclusionBand * float64(rect.Height)
	cx := float64(rect.X) + float64(rect.Width)/2
	cy := float64(rect.Y+rect.Height) - band/2

	pad := blurPad(p.OcclusionBlur)
	w := int(math.Ceil(2*rx)) + 2*pad
	h := int(math.Ceil(2*ry)) + 2*pad
	ox := int(math.Floor(cx - rx)) - pad
	oy := int(math.Floor(cy - ry)) - pad

	mask := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dy := (float64(oy+y) + 0.5 - cy) / ry
		for x := 0; x < w; x++ {
			dx := (float64(ox+x) + 0.5 - cx) / rx
			if dx*dx+dy*dy <= 1 {
				mask.Pix[mask.PixOffset(x, y)+3] = p.OcclusionAlpha
			}
		}
	}

	s, err := surface.Adopt(blur(mask, p.OcclusionBlur))
	if err != nil {
		return layer.Layer{}, err
	}
	return layer.Layer{
		Kind:    layer.Occlusion,
		Surface: s,
		Offset:  image.Pt(ox, oy),
		Mode:    layer.Multiply,
		Opacity: 1,
	}, nil
}

// Sample averages the background around the placement, padded by
// SamplePadding and clipped to the background.
func Sample(bg *surface.Surface, rect surface.Rect, p Params) (surface.ColorSample, error) {
	if bg == nil {
		return surface.ColorSample{}, apperr.New(apperr.ErrCodeInvalidInput, "nil background")
	}
	return bg.Mean(rect.Pad(p.SamplePadding))
}

// Tint mixes every subject pixel toward sample by TintMix. Alpha is kept.
func Tint(subject *surface.Surface, sample surface.ColorSample, p Params) (*surface.Surface, error) {
	if subject == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "nil subject")
	}
	if p.TintMix < 0 || p.TintMix > 1 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "tint mix %g outside [0, 1]", p.TintMix)
	}
	m := p.TintMix
	target := [3]float64{sample.R, sample.G, sample.B}

	out := subject.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			out.Pix[i+c] = surface.Round8((1-m)*float64(out.Pix[i+c]) + m*target[c])
		}
	}
	return surface.Adopt(out)
}

// Glow builds the rim light: the subject blurred by GlowBlur, brightened
// by GlowGain and drawn above the subject with Screen at GlowOpacity.
func Glow(subject *surface.Surface, rect surface.Rect, p Params) (layer.Layer, error) {
	if subject == nil || rect.Empty() {
		return layer.Layer{}, apperr.New(apperr.ErrCodeInvalidInput, "glow needs a placed subject")
	}
	pad := blurPad(p.GlowBlur)
	canvas := imaging.Paste(
		imaging.New(subject.Width()+2*pad, subject.Height()+2*pad, color.NRGBA{}),
		subject.Image(), image.Pt(pad, pad),
	)
	gain := p.GlowGain
	bright := imaging.AdjustFunc(blur(canvas, p.GlowBlur), func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: surface.Round8(float64(c.R) * gain),
			G: surface.Round8(float64(c.G) * gain),
			B: surface.Round8(float64(c.B) * gain),
			A: c.A,
		}
	})

	s, err := surface.Adopt(bright)
	if err != nil {
		return layer.Layer{}, err
	}
	return layer.Layer{
		Kind:    layer.Glow,
		Surface: s,
		Offset:  image.Pt(rect.X-pad, rect.Y-pad),
		Mode:    layer.Screen,
		Opacity: p.GlowOpacity,
	}, nil
}

// blurPad is the margin a Gaussian of the given sigma needs to fade out.
func blurPad(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(3 * sigma))
}

func blur(img *image.NRGBA, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return img
	}
	return imaging.Blur(img, sigma)
}
