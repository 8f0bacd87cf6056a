package depth

import (
	"image"
	"image/color"
	"testing"

	"github.com/draddo11/Holiday/pkg/core/layer"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

func filled(t *testing.T, w, h int, c color.NRGBA) *surface.Surface {
	t.Helper()
	s, err := surface.Filled(w, h, c)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTintExample(t *testing.T) {
	subject := filled(t, 2, 2, color.NRGBA{R: 255, A: 255})
	out, err := Tint(subject, surface.ColorSample{B: 255}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(1, 1); got != (color.NRGBA{R: 217, G: 0, B: 38, A: 255}) {
		t.Errorf("Tint = %v, want {217 0 38 255}", got)
	}
}

func TestTintPreservesAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, A: 77})
	img.SetNRGBA(2, 0, color.NRGBA{R: 10, A: 255})
	subject, _ := surface.Adopt(img)

	out, err := Tint(subject, surface.ColorSample{R: 200, G: 200, B: 200}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for x, want := range []uint8{0, 77, 255} {
		if got := out.At(x, 0).A; got != want {
			t.Errorf("alpha at %d = %d, want %d", x, got, want)
		}
	}
	if subject.At(2, 0).R != 10 {
		t.Error("Tint modified its input")
	}
}

func TestTintRejectsBadMix(t *testing.T) {
	p := DefaultParams()
	p.TintMix = 1.2
	_, err := Tint(filled(t, 1, 1, color.NRGBA{A: 255}), surface.ColorSample{}, p)
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSample(t *testing.T) {
	bg := filled(t, 100, 100, color.NRGBA{R: 30, G: 60, B: 90, A: 255})
	got, err := Sample(bg, surface.Rect{X: 90, Y: 90, Width: 20, Height: 20}, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if got.R != 30 || got.G != 60 || got.B != 90 {
		t.Errorf("Sample = %+v", got)
	}

	p := DefaultParams()
	p.SamplePadding = 0
	if _, err := Sample(bg, surface.Rect{X: 200, Y: 200, Width: 10, Height: 10}, p); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("Sample outside background error = %v, want INVALID_INPUT", err)
	}
}

func TestShadow(t *testing.T) {
	p := DefaultParams()
	subject := filled(t, 40, 80, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	rect := surface.Rect{X: 100, Y: 50, Width: 40, Height: 80}

	l, err := Shadow(subject, rect, p)
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != layer.Shadow || l.Mode != layer.Over {
		t.Errorf("layer = %s/%s, want shadow/over", l.Kind, l.Mode)
	}
	pad := blurPad(p.ShadowBlur)
	if l.Offset != image.Pt(rect.X+p.ShadowOffsetX-pad, rect.Y+p.ShadowOffsetY-pad) {
		t.Errorf("Offset = %v", l.Offset)
	}
	if l.Surface.Width() != 40+2*pad || l.Surface.Height() != 80+2*pad {
		t.Errorf("shadow size = %dx%d", l.Surface.Width(), l.Surface.Height())
	}

	center := l.Surface.At(pad+20, pad+40)
	if center.R != 0 || center.G != 0 || center.B != 0 {
		t.Errorf("shadow color = %v, want black", center)
	}
	if center.A == 0 || center.A > p.ShadowAlpha {
		t.Errorf("shadow center alpha = %d, want in (0, %d]", center.A, p.ShadowAlpha)
	}
	if corner := l.Surface.At(0, 0); corner.A > 2 {
		t.Errorf("shadow corner alpha = %d, want faded out", corner.A)
	}
}

func TestOcclusionGeometry(t *testing.T) {
	p := DefaultParams()
	p.OcclusionBlur = 0
	rect := surface.Rect{X: 300, Y: 100, Width: 100, Height: 400}

	l, err := Occlusion(rect, p)
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != layer.Occlusion {
		t.Errorf("Kind = %s", l.Kind)
	}

	// rx = 60, ry = 18, centered at x=350, y=500-16.
	at := func(x, y int) uint8 {
		return l.Surface.At(x-l.Offset.X, y-l.Offset.Y).A
	}
	if got := at(350, 484); got != p.OcclusionAlpha {
		t.Errorf("center alpha = %d, want %d", got, p.OcclusionAlpha)
	}
	if got := at(350+58, 484); got != p.OcclusionAlpha {
		t.Errorf("alpha near horizontal edge = %d, want %d", got, p.OcclusionAlpha)
	}
	if got := at(350, 484+20); got != 0 {
		t.Errorf("alpha below vertical radius = %d, want 0", got)
	}
	if l.Surface.Width() < 120 || l.Surface.Height() < 36 {
		t.Errorf("ellipse canvas %dx%d too small", l.Surface.Width(), l.Surface.Height())
	}
}

func TestOcclusionTooSmall(t *testing.T) {
	_, err := Occlusion(surface.Rect{Width: 2, Height: 2}, DefaultParams())
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestGlow(t *testing.T) {
	p := DefaultParams()
	subject := filled(t, 20, 20, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	rect := surface.Rect{X: 10, Y: 10, Width: 20, Height: 20}

	l, err := Glow(subject, rect, p)
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != layer.Glow || l.Mode != layer.Screen || l.Opacity != p.GlowOpacity {
		t.Errorf("layer = %s/%s/%g", l.Kind, l.Mode, l.Opacity)
	}
	pad := blurPad(p.GlowBlur)
	if got := l.Surface.At(pad+10, pad+10); got.R != 130 {
		t.Errorf("brightened center R = %d, want 130", got.R)
	}
}

func TestDeterministic(t *testing.T) {
	p := DefaultParams()
	subject := filled(t, 30, 60, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	rect := surface.Rect{X: 5, Y: 5, Width: 30, Height: 60}

	a, _ := Shadow(subject, rect, p)
	b, _ := Shadow(subject, rect, p)
	if string(a.Surface.Image().Pix) != string(b.Surface.Image().Pix) {
		t.Error("Shadow is not deterministic")
	}
}

func TestScaled(t *testing.T) {
	p := DefaultParams().Scaled(1600, 2400)
	if p.ShadowOffsetX != 20 || p.ShadowOffsetY != 24 || p.ShadowBlur != 40 || p.SamplePadding != 100 {
		t.Errorf("Scaled(1600x2400) = %+v", p)
	}
	if p.OcclusionRadius != 0.15 || p.TintMix != 0.15 {
		t.Error("relative parameters must not scale")
	}

	same := DefaultParams().Scaled(800, 800)
	want := DefaultParams()
	want.ReferenceSize = 0
	if same != want {
		t.Errorf("Scaled(800x800) changed values: %+v", same)
	}

	raw := DefaultParams()
	raw.ReferenceSize = 0
	if raw.Scaled(100, 100) != raw {
		t.Error("ReferenceSize 0 should disable scaling")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := []func(*Params){
		func(p *Params) { p.ShadowBlur = -1 },
		func(p *Params) { p.OcclusionFlatten = 0 },
		func(p *Params) { p.TintMix = 2 },
		func(p *Params) { p.GlowOpacity = -0.1 },
		func(p *Params) { p.SamplePadding = -5 },
	}
	for i, mutate := range bad {
		p := DefaultParams()
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: Validate should fail", i)
		}
	}
}
