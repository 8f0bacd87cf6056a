// Package layer holds the back-to-front stack a composite is built from.
//
// Layers must be pushed in kind order: background, shadow, occlusion,
// subject, glow. Several layers of one kind may follow each other, but a
// layer never goes beneath one of a later kind, so depth cues always sit
// under the subject and the glow always sits above it.
package layer

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

// Kind orders layers from back to front.
type Kind int

const (
	Background Kind = iota
	Shadow
	Occlusion
	Subject
	Glow
)

var kindNames = [...]string{"background", "shadow", "occlusion", "subject", "glow"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// BlendMode combines a layer color s with the color d beneath it.
type BlendMode int

const (
	// Over replaces d with s.
	Over BlendMode = iota
	// Multiply darkens: d*s.
	Multiply
	// Screen lightens: 1-(1-d)(1-s).
	Screen
)

func (m BlendMode) String() string {
	switch m {
	case Over:
		return "over"
	case Multiply:
		return "multiply"
	case Screen:
		return "screen"
	}
	return fmt.Sprintf("blend(%d)", int(m))
}

// Layer is one surface positioned on the background.
type Layer struct {
	Kind    Kind
	Surface *surface.Surface
	Offset  image.Point
	Mode    BlendMode
	// Opacity scales the layer alpha, in [0, 1].
	Opacity float64
}

// Stack is an ordered list of layers, background first.
type Stack struct {
	layers []Layer
}

// NewStack starts a stack with an opaque background at the origin.
func NewStack(bg *surface.Surface) (*Stack, error) {
	if bg == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "nil background")
	}
	return &Stack{layers: []Layer{{Kind: Background, Surface: bg, Mode: Over, Opacity: 1}}}, nil
}

// Push appends l. A layer whose kind sorts before the current top, a
// second background, a nil surface or an opacity outside [0, 1] is
// InvalidInput.
func (s *Stack) Push(l Layer) error {
	if l.Surface == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "%s layer has no surface", l.Kind)
	}
	if l.Kind <= Background || l.Kind > Glow {
		return apperr.New(apperr.ErrCodeInvalidInput, "cannot push %s layer", l.Kind)
	}
	if top := s.layers[len(s.layers)-1].Kind; l.Kind < top {
		return apperr.New(apperr.ErrCodeInvalidInput, "%s layer cannot go above %s", l.Kind, top)
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "%s layer opacity %g outside [0, 1]", l.Kind, l.Opacity)
	}
	s.layers = append(s.layers, l)
	return nil
}

// Layers returns the stack back to front.
func (s *Stack) Layers() []Layer {
	out := make([]Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Kinds lists the layer kinds back to front.
func (s *Stack) Kinds() []Kind {
	out := make([]Kind, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Kind
	}
	return out
}

// Background returns the bottom layer's surface.
func (s *Stack) Background() *surface.Surface {
	return s.layers[0].Surface
}

// Flatten composites every layer, background included, onto canvas and
// returns the result. canvas is not modified.
func (s *Stack) Flatten(canvas *surface.Surface) (*surface.Surface, error) {
	dst := canvas.Clone()
	for _, l := range s.layers {
		dst = Blend(dst, l)
	}
	return surface.Adopt(dst)
}

// Blend draws l onto a copy of dst and returns it; dst is never written.
// Over uses the imaging overlay; Multiply and Screen blend each channel
// toward the mode color by the layer alpha times its opacity. dst alpha
// is combined with the source-over rule in every mode.
func Blend(dst *image.NRGBA, l Layer) *image.NRGBA {
	if l.Opacity <= 0 {
		return dst
	}
	if l.Mode == Over {
		return imaging.Overlay(dst, l.Surface.Image(), l.Offset, l.Opacity)
	}

	dst = imaging.Clone(dst)
	src := l.Surface.Image()
	area := src.Rect.Add(l.Offset).Intersect(dst.Rect)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		di := dst.PixOffset(area.Min.X, y)
		si := src.PixOffset(area.Min.X-l.Offset.X, y-l.Offset.Y)
		for x := area.Min.X; x < area.Max.X; x++ {
			a := float64(src.Pix[si+3]) / 255 * l.Opacity
			if a > 0 {
				blendPixel(dst.Pix[di:di+4], src.Pix[si:si+4], a, l.Mode)
			}
			di += 4
			si += 4
		}
	}
	return dst
}

func blendPixel(d, s []uint8, a float64, mode BlendMode) {
	da := float64(d[3]) / 255
	outA := a + da*(1-a)
	if outA <= 0 {
		return
	}
	for c := 0; c < 3; c++ {
		dc, sc := float64(d[c]), float64(s[c])
		var mixed float64
		switch mode {
		case Multiply:
			mixed = dc * sc / 255
		case Screen:
			mixed = 255 - (255-dc)*(255-sc)/255
		default:
			mixed = sc
		}
		// Where dst is transparent the mode has nothing to act on.
		mixed = (1-da)*sc + da*mixed
		d[c] = surface.Round8((mixed*a + dc*da*(1-a)) / outA)
	}
	d[3] = surface.Round8(outA * 255)
}
