// Package place computes where a foreground subject sits on a background
// and resamples it to that size.
package place

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Anchor selects the vertical placement of the subject.
type Anchor string

const (
	// Centered places the subject in the vertical middle.
	Centered Anchor = "centered"
	// Bottom stands the subject on the lower edge, lifted by the margin.
	Bottom Anchor = "bottom"
)

// ParseAnchor accepts "centered"/"center" and "bottom"; empty means Bottom.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "", string(Bottom):
		return Bottom, nil
	case string(Centered), "center":
		return Centered, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidInput, "unknown anchor %q (want centered or bottom)", s)
}

// Spec describes the requested placement.
type Spec struct {
	// HeightFraction is the subject height relative to the background, in (0, 1].
	HeightFraction float64
	Anchor         Anchor
	// MarginFraction lifts a bottom-anchored subject off the edge, relative
	// to the background height.
	MarginFraction float64
}

// Place returns the rectangle the foreground occupies on a bgW × bgH
// background. The rectangle preserves the foreground aspect ratio, is
// horizontally centered and never leaves the background.
func Place(fgW, fgH, bgW, bgH int, spec Spec) (surface.Rect, error) {
	if fgW <= 0 || fgH <= 0 {
		return surface.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "foreground size %dx%d must be positive", fgW, fgH)
	}
	if bgW <= 0 || bgH <= 0 {
		return surface.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "background size %dx%d must be positive", bgW, bgH)
	}
	if err := apperr.ValidateFraction("height fraction", spec.HeightFraction); err != nil {
		return surface.Rect{}, err
	}
	if spec.MarginFraction < 0 || spec.MarginFraction >= 1 {
		return surface.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "margin fraction must be in [0, 1), got %g", spec.MarginFraction)
	}

	aspect := float64(fgW) / float64(fgH)
	h := max(1, round(float64(bgH)*spec.HeightFraction))
	w := max(1, round(aspect*float64(h)))

	// Too wide: fit the width instead and derive the height from it.
	if w > bgW {
		w = bgW
		h = min(bgH, max(1, round(float64(w)/aspect)))
	}

	r := surface.Rect{X: (bgW - w) / 2, Width: w, Height: h}
	switch spec.Anchor {
	case Centered:
		r.Y = (bgH - h) / 2
	case Bottom, "":
		r.Y = max(0, bgH-h-round(spec.MarginFraction*float64(bgH)))
	default:
		return surface.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "unknown anchor %q", spec.Anchor)
	}
	return r, nil
}

// PlaceSurface is Place for a decoded foreground.
func PlaceSurface(fg *surface.Surface, bgW, bgH int, spec Spec) (surface.Rect, error) {
	if fg == nil {
		return surface.Rect{}, apperr.New(apperr.ErrCodeInvalidInput, "nil foreground")
	}
	return Place(fg.Width(), fg.Height(), bgW, bgH, spec)
}

// Resize resamples fg to the rectangle's size with a Lanczos filter.
func Resize(fg *surface.Surface, r surface.Rect) (*surface.Surface, error) {
	if r.Empty() {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "empty placement %v", r)
	}
	if fg.Width() == r.Width && fg.Height() == r.Height {
		return fg, nil
	}
	return surface.Adopt(imaging.Resize(fg.Image(), r.Width, r.Height, imaging.Lanczos))
}

func round(v float64) int { return int(math.Round(v)) }
