// Package finish flattens a layer stack and applies the global grade:
// saturation, contrast and sharpness enhancement followed by a vignette.
package finish

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/draddo11/Holiday/pkg/core/layer"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Params holds the grade. Enhancement factors of 1 leave the image
// unchanged; a VignetteStrength of 0 disables the vignette.
type Params struct {
	Saturation float64 `toml:"saturation"`
	Contrast   float64 `toml:"contrast"`
	Sharpness  float64 `toml:"sharpness"`

	VignetteSteps    int     `toml:"vignette_steps"`
	VignetteBand     float64 `toml:"vignette_band"`
	VignetteStrength float64 `toml:"vignette_strength"`
	// VignetteSoftness divides the short side to get the mask blur sigma.
	VignetteSoftness float64 `toml:"vignette_softness"`
}

// DefaultParams returns the tuned grade.
func DefaultParams() Params {
	return Params{
		Saturation:       1.15,
		Contrast:         1.08,
		Sharpness:        1.2,
		VignetteSteps:    12,
		VignetteBand:     0.25,
		VignetteStrength: 0.30,
		VignetteSoftness: 20,
	}
}

// Validate rejects factors the grade cannot apply.
func (p Params) Validate() error {
	switch {
	case p.Saturation < 0 || p.Contrast < 0 || p.Sharpness < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "enhancement factors must not be negative")
	case p.VignetteStrength < 0 || p.VignetteStrength > 1:
		return apperr.New(apperr.ErrCodeInvalidInput, "vignette strength must be in [0, 1]")
	case p.VignetteStrength > 0 && p.VignetteSteps <= 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "vignette steps must be positive")
	case p.VignetteBand < 0 || p.VignetteBand > 0.5:
		return apperr.New(apperr.ErrCodeInvalidInput, "vignette band must be in [0, 0.5]")
	case p.VignetteSoftness < 0:
		return apperr.New(apperr.ErrCodeInvalidInput, "vignette softness must not be negative")
	}
	return nil
}

// Finish flattens the stack onto opaque white and grades the result in a
// fixed order: saturation, contrast, sharpness, vignette.
func Finish(stack *layer.Stack, p Params) (*surface.Surface, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bg := stack.Background()
	white, err := surface.Filled(bg.Width(), bg.Height(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		return nil, err
	}
	flat, err := stack.Flatten(white)
	if err != nil {
		return nil, err
	}
	return Grade(flat, p)
}

// Grade applies the enhancement chain and vignette to an opaque surface.
func Grade(s *surface.Surface, p Params) (*surface.Surface, error) {
	img := s.Image()
	img = Saturate(img, p.Saturation)
	img = Contrast(img, p.Contrast)
	img = Sharpen(img, p.Sharpness)
	img = Vignette(img, p)
	return surface.Adopt(img)
}

// luma is the ITU-R 601 grayscale value.
func luma(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Saturate moves each pixel away from its own gray value by factor.
func Saturate(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		l := luma(c)
		return color.NRGBA{
			R: surface.Round8(l + factor*(float64(c.R)-l)),
			G: surface.Round8(l + factor*(float64(c.G)-l)),
			B: surface.Round8(l + factor*(float64(c.B)-l)),
			A: c.A,
		}
	})
}

// Contrast moves each channel away from the image's mean gray by factor.
func Contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	var sum float64
	n := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		sum += luma(color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2]})
		n++
	}
	mean := float64(surface.Round8(sum / float64(max(n, 1))))

	var lut [256]uint8
	for v := range lut {
		lut[v] = surface.Round8(mean + factor*(float64(v)-mean))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	})
}

// smoothKernel is a center-weighted 3×3 smoothing filter.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Sharpen pushes the image away from a smoothed copy of itself:
// out = smooth + factor*(img - smooth).
func Sharpen(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor == 1 {
		return img
	}
	smooth := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	out := image.NewNRGBA(img.Rect)
	for i := 0; i < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			s := float64(smooth.Pix[i+c])
			out.Pix[i+c] = surface.Round8(s + factor*(float64(img.Pix[i+c])-s))
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// Vignette darkens toward the edges. The darkness mask is a set of
// concentric inset rectangles stepping from VignetteStrength at the border
// to zero at VignetteBand of the short side, softened by a blur of
// shortSide/VignetteSoftness. The image is then composited over black
// through the mask, so pixels inside the innermost rectangle keep their
// exact values.
func Vignette(img *image.NRGBA, p Params) *image.NRGBA {
	if p.VignetteStrength <= 0 || p.VignetteSteps <= 0 {
		return img
	}
	mask := VignetteMask(img.Rect.Dx(), img.Rect.Dy(), p)
	return imaging.Overlay(img, mask, image.Point{}, 1)
}

// VignetteMask returns a black image whose alpha is the darkness at each
// pixel.
func VignetteMask(w, h int, p Params) *image.NRGBA {
	short := min(w, h)
	band := p.VignetteBand * float64(short)
	mask := imaging.New(w, h, color.NRGBA{A: surface.Round8(p.VignetteStrength * 255)})

	for i := 1; i <= p.VignetteSteps; i++ {
		inset := int(band * float64(i) / float64(p.VignetteSteps))
		r := image.Rect(inset, inset, w-inset, h-inset)
		if r.Empty() {
			break
		}
		a := surface.Round8(p.VignetteStrength * 255 * (1 - float64(i)/float64(p.VignetteSteps)))
		fill(mask, r, a)
	}

	if p.VignetteSoftness > 0 {
		if sigma := float64(short) / p.VignetteSoftness; sigma > 0 {
			mask = imaging.Blur(mask, sigma)
		}
	}
	return mask
}

func fill(img *image.NRGBA, r image.Rectangle, alpha uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			row[i] = alpha
		}
	}
}
