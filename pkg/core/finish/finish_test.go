package finish

import (
	"image"
	"image/color"
	"testing"

	"github.com/draddo11/Holiday/pkg/core/layer"
	"github.com/draddo11/Holiday/pkg/core/surface"
)

func identity() Params {
	return Params{Saturation: 1, Contrast: 1, Sharpness: 1}
}

func stackOf(t *testing.T, img *image.NRGBA) *layer.Stack {
	t.Helper()
	s, err := surface.Adopt(img)
	if err != nil {
		t.Fatal(err)
	}
	st, err := layer.NewStack(s)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestFinishFlattensOnWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	out, err := Finish(stackOf(t, img), identity())
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("transparent background pixel = %v, want white", got)
	}
	if got := out.At(1, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("opaque pixel = %v", got)
	}
	if out.HasTransparency() {
		t.Error("finished image must be opaque")
	}
}

func TestFinishVignetteKeepsCenter(t *testing.T) {
	c := color.NRGBA{R: 130, G: 130, B: 130, A: 255}
	bg := image.NewNRGBA(image.Rect(0, 0, 200, 160))
	for i := 0; i < len(bg.Pix); i += 4 {
		bg.Pix[i], bg.Pix[i+1], bg.Pix[i+2], bg.Pix[i+3] = c.R, c.G, c.B, c.A
	}

	out, err := Finish(stackOf(t, bg), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(100, 80); got != c {
		t.Errorf("center = %v, want untouched %v", got, c)
	}
	corner := out.At(0, 0)
	if corner.R > 104 || corner.R < 89 {
		t.Errorf("corner R = %d, want darkened by up to 30%%", corner.R)
	}
	edge := out.At(100, 0)
	if edge.R >= c.R || edge.R < corner.R {
		t.Errorf("edge R = %d, want between corner %d and center %d", edge.R, corner.R, c.R)
	}
}

func TestSaturate(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	got := Saturate(img, 1.15).NRGBAAt(0, 0)
	if got != (color.NRGBA{R: 211, G: 96, B: 39, A: 255}) {
		t.Errorf("Saturate = %v, want {211 96 39 255}", got)
	}

	gray := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	gray.SetNRGBA(0, 0, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	if got := Saturate(gray, 1.15).NRGBAAt(0, 0); got.R != 90 || got.B != 90 {
		t.Errorf("gray changed under saturation: %v", got)
	}
}

func TestContrastSpreadsAroundMean(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	out := Contrast(img, 1.08)
	lo, hi := out.NRGBAAt(0, 0).R, out.NRGBAAt(1, 0).R
	// mean 150: 150 ± 1.08*50
	if lo != 96 || hi != 204 {
		t.Errorf("Contrast = %d,%d, want 96,204", lo, hi)
	}
}

func TestSharpenIncreasesEdge(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(60)
			if x >= 3 {
				v = 180
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	out := Sharpen(img, 1.2)
	if out.NRGBAAt(2, 3).R >= 60 || out.NRGBAAt(3, 3).R <= 180 {
		t.Errorf("edge not sharpened: %d | %d", out.NRGBAAt(2, 3).R, out.NRGBAAt(3, 3).R)
	}
	if out.NRGBAAt(0, 3).R != 60 {
		t.Errorf("flat region changed: %d", out.NRGBAAt(0, 3).R)
	}
}

func TestIdentityIsNoop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	s, _ := surface.Adopt(img)
	out, err := Grade(s, identity())
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Image().Pix) != string(img.Pix) {
		t.Error("identity grade changed pixels")
	}
}

func TestVignetteMask(t *testing.T) {
	p := DefaultParams()
	p.VignetteSoftness = 0
	mask := VignetteMask(100, 100, p)

	if got := mask.NRGBAAt(0, 0).A; got != 77 {
		t.Errorf("border darkness = %d, want 77", got)
	}
	if got := mask.NRGBAAt(50, 50).A; got != 0 {
		t.Errorf("center darkness = %d, want 0", got)
	}
	prev := uint8(255)
	for x := 0; x <= 25; x++ {
		a := mask.NRGBAAt(x, 50).A
		if a > prev {
			t.Fatalf("darkness increases inward at x=%d", x)
		}
		prev = a
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.VignetteStrength = 1.5
	if p.Validate() == nil {
		t.Error("strength above 1 should be rejected")
	}
}
