package segment

import (
	"context"
	"image"
	"math"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// CornerKey removes a roughly uniform backdrop without a model. The key
// color is the mean of the four corner patches; pixels near it become
// transparent, with a linear feather between Tolerance and
// Tolerance+Feather (RGB distance, 0–441).
type CornerKey struct {
	Tolerance float64
	Feather   float64
	// Agreement is the largest CIE Lab distance allowed between corner
	// samples. Busier corners mean the backdrop is not uniform.
	Agreement float64
}

// DefaultCornerKey returns the tuned key.
func DefaultCornerKey() CornerKey {
	return CornerKey{Tolerance: 40, Feather: 30, Agreement: 0.12}
}

func (CornerKey) Name() string { return "corner-key" }

// Remove keys out the corner color. It fails when the corners disagree or
// when the key leaves almost nothing or almost everything opaque.
func (k CornerKey) Remove(_ context.Context, s *surface.Surface) (*surface.Surface, error) {
	if s == nil {
		return nil, apperr.New(apperr.ErrCodeSegmentation, "no foreground")
	}
	key, err := k.KeyColor(s)
	if err != nil {
		return nil, err
	}

	src := s.Image()
	out := image.NewNRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	kr, kg, kb := key.R, key.G, key.B
	feather := math.Max(k.Feather, 1)

	total, kept := 0, 0
	for i := 0; i+3 < len(out.Pix); i += 4 {
		dr := float64(out.Pix[i]) - kr
		dg := float64(out.Pix[i+1]) - kg
		db := float64(out.Pix[i+2]) - kb
		d := math.Sqrt(dr*dr + dg*dg + db*db)

		f := (d - k.Tolerance) / feather
		f = math.Max(0, math.Min(1, f))
		out.Pix[i+3] = surface.Round8(float64(out.Pix[i+3]) * f)

		total++
		if out.Pix[i+3] > 0 {
			kept++
		}
	}

	switch frac := float64(kept) / float64(total); {
	case frac < 0.02:
		return nil, apperr.New(apperr.ErrCodeSegmentation, "corner key removed the whole subject")
	case frac > 0.98:
		return nil, apperr.New(apperr.ErrCodeSegmentation, "corner key found no backdrop")
	}
	return surface.Adopt(out)
}

// KeyColor returns the mean corner color, or an error when the corner
// samples differ by more than Agreement.
func (k CornerKey) KeyColor(s *surface.Surface) (surface.ColorSample, error) {
	w, h := s.Width(), s.Height()
	n := max(1, min(w, h)/20)
	corners := [4]surface.Rect{
		{X: 0, Y: 0, Width: n, Height: n},
		{X: w - n, Y: 0, Width: n, Height: n},
		{X: 0, Y: h - n, Width: n, Height: n},
		{X: w - n, Y: h - n, Width: n, Height: n},
	}

	var samples [4]surface.ColorSample
	var sum surface.ColorSample
	for i, r := range corners {
		c, err := s.Mean(r)
		if err != nil {
			return surface.ColorSample{}, apperr.Wrap(apperr.ErrCodeSegmentation, err, "sample corner")
		}
		samples[i] = c
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	for i := range samples {
		for j := i + 1; j < len(samples); j++ {
			if d := samples[i].Colorful().DistanceLab(samples[j].Colorful()); d > k.Agreement {
				return surface.ColorSample{}, apperr.New(apperr.ErrCodeSegmentation,
					"corners differ (%s vs %s), backdrop is not uniform", samples[i].Hex(), samples[j].Hex())
			}
		}
	}
	return surface.ColorSample{R: sum.R / 4, G: sum.G / 4, B: sum.B / 4}, nil
}
