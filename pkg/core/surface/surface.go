// Package surface defines the RGBA pixel grid every compositing stage
// reads and produces.
//
// A [Surface] wraps a non-premultiplied *image.NRGBA whose bounds start at
// the origin. Surfaces are never modified after construction: each stage
// returns a fresh one, so a surface can be handed between stages (or
// goroutines) without locking.
package surface

import (
	"bytes"
	"image"
	"image/color"

	// Formats accepted by Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// MaxPixels bounds decoded images to keep a single request's memory in check.
const MaxPixels = 64 << 20

// Surface is an immutable width × height grid of NRGBA pixels.
type Surface struct {
	img *image.NRGBA
}

// New returns a fully transparent surface.
func New(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "surface size %dx%d must be positive", w, h)
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, w, h))}, nil
}

// Filled returns an opaque surface of a single color.
func Filled(w, h int, c color.NRGBA) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "surface size %dx%d must be positive", w, h)
	}
	return &Surface{img: imaging.New(w, h, c)}, nil
}

// FromImage copies img into a new surface anchored at the origin.
func FromImage(img image.Image) (*Surface, error) {
	if img == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "image has zero size %dx%d", b.Dx(), b.Dy())
	}
	return &Surface{img: imaging.Clone(img)}, nil
}

// Adopt wraps img without copying. The caller gives up ownership: img
// must not be written after the call. Images whose bounds do not start at
// the origin are copied.
func Adopt(img *image.NRGBA) (*Surface, error) {
	if img == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "nil image")
	}
	if img.Rect.Min != (image.Point{}) {
		return FromImage(img)
	}
	if img.Rect.Dx() <= 0 || img.Rect.Dy() <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "image has zero size %dx%d", img.Rect.Dx(), img.Rect.Dy())
	}
	return &Surface{img: img}, nil
}

// Decode decodes PNG, JPEG, GIF, WebP or BMP bytes into a surface.
// Undecodable, empty or oversized input is InvalidInput.
func Decode(data []byte) (*Surface, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "empty image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "unrecognized image data")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "%s image has zero size", format)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "%s image %dx%d exceeds %d pixels", format, cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode %s", format)
	}
	return FromImage(img)
}

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// At returns the pixel at (x, y); out-of-range coordinates are transparent.
func (s *Surface) At(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// Image returns the underlying pixels. Callers must treat the result as
// read-only.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Clone returns a deep copy that the caller may modify.
func (s *Surface) Clone() *image.NRGBA {
	out := image.NewNRGBA(s.img.Rect)
	copy(out.Pix, s.img.Pix)
	return out
}

// HasTransparency reports whether any pixel has alpha below 255.
func (s *Surface) HasTransparency() bool {
	w, h := s.Width(), s.Height()
	for y := 0; y < h; y++ {
		row := s.img.Pix[y*s.img.Stride : y*s.img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return true
			}
		}
	}
	return false
}

// Mean averages the RGB channels over r clipped to the surface.
// An empty intersection is InvalidInput.
func (s *Surface) Mean(r Rect) (ColorSample, error) {
	clip := r.Image().Intersect(s.img.Rect)
	if clip.Empty() {
		return ColorSample{}, apperr.New(apperr.ErrCodeInvalidInput, "sample region %v lies outside %v", r, s.img.Rect)
	}
	var sr, sg, sb float64
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		i := s.img.PixOffset(clip.Min.X, y)
		for x := clip.Min.X; x < clip.Max.X; x++ {
			sr += float64(s.img.Pix[i])
			sg += float64(s.img.Pix[i+1])
			sb += float64(s.img.Pix[i+2])
			i += 4
		}
	}
	n := float64(clip.Dx() * clip.Dy())
	return ColorSample{R: sr / n, G: sg / n, B: sb / n}, nil
}
