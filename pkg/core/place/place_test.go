package place

import (
	"image/color"
	"math"
	"testing"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

func TestPlaceCentered(t *testing.T) {
	r, err := Place(400, 1000, 800, 800, Spec{HeightFraction: 0.55, Anchor: Centered})
	if err != nil {
		t.Fatal(err)
	}
	want := surface.Rect{X: 312, Y: 180, Width: 176, Height: 440}
	if r != want {
		t.Errorf("Place = %+v, want %+v", r, want)
	}
}

func TestPlaceBottom(t *testing.T) {
	r, err := Place(400, 1000, 800, 800, Spec{HeightFraction: 0.55, Anchor: Bottom, MarginFraction: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	// 800 - 440 - 40
	if r.Y != 320 || r.Height != 440 || r.Width != 176 || r.X != 312 {
		t.Errorf("Place = %+v, want 176x440 at (312,320)", r)
	}
}

func TestPlaceBottomClampsToTop(t *testing.T) {
	r, err := Place(100, 100, 200, 100, Spec{HeightFraction: 1, Anchor: Bottom, MarginFraction: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if r.Y != 0 {
		t.Errorf("Y = %d, want clamp to 0", r.Y)
	}
}

func TestPlaceWideForegroundShrinks(t *testing.T) {
	r, err := Place(3000, 500, 600, 400, Spec{HeightFraction: 0.9, Anchor: Centered})
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 600 || r.Height != 100 || r.X != 0 {
		t.Errorf("Place = %+v, want 600x100 at x=0", r)
	}
	if !r.Within(600, 400) {
		t.Errorf("rect %v overflows the background", r)
	}
}

func TestPlaceProperties(t *testing.T) {
	sizes := [][2]int{{400, 1000}, {1000, 400}, {1, 1}, {333, 777}, {1920, 1080}}
	bgs := [][2]int{{800, 800}, {1024, 768}, {300, 900}}
	fractions := []float64{0.1, 0.33, 0.55, 0.6, 1}

	for _, fg := range sizes {
		for _, bg := range bgs {
			for _, h := range fractions {
				for _, a := range []Anchor{Centered, Bottom} {
					r, err := Place(fg[0], fg[1], bg[0], bg[1], Spec{HeightFraction: h, Anchor: a, MarginFraction: 0.05})
					if err != nil {
						t.Fatalf("Place(%v on %v, %g): %v", fg, bg, h, err)
					}
					if !r.Within(bg[0], bg[1]) {
						t.Errorf("Place(%v on %v, %g, %s) = %v outside background", fg, bg, h, a, r)
					}
					wantH := int(math.Round(float64(bg[1]) * h))
					wantW := int(math.Round(float64(fg[0]) / float64(fg[1]) * float64(wantH)))
					if wantW <= bg[0] && abs(r.Height-wantH) > 1 {
						t.Errorf("Place(%v on %v, %g) height %d, want %d±1", fg, bg, h, r.Height, wantH)
					}
					gotAspect := float64(r.Width) / float64(r.Height)
					fgAspect := float64(fg[0]) / float64(fg[1])
					if tol := 1/float64(r.Height) + 1/float64(r.Width); math.Abs(gotAspect-fgAspect)/fgAspect > tol+0.01 {
						t.Errorf("Place(%v on %v, %g) aspect %.3f, want %.3f", fg, bg, h, gotAspect, fgAspect)
					}
				}
			}
		}
	}
}

func TestPlaceRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		fgW, fgH int
		spec     Spec
	}{
		{"zero fg height", 10, 0, Spec{HeightFraction: 0.5}},
		{"zero fraction", 10, 10, Spec{HeightFraction: 0}},
		{"fraction above one", 10, 10, Spec{HeightFraction: 1.5}},
		{"negative margin", 10, 10, Spec{HeightFraction: 0.5, MarginFraction: -0.1}},
		{"unknown anchor", 10, 10, Spec{HeightFraction: 0.5, Anchor: "top"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Place(tt.fgW, tt.fgH, 100, 100, tt.spec)
			if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestParseAnchor(t *testing.T) {
	for in, want := range map[string]Anchor{"": Bottom, "bottom": Bottom, "centered": Centered, "center": Centered} {
		got, err := ParseAnchor(in)
		if err != nil || got != want {
			t.Errorf("ParseAnchor(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseAnchor("left"); err == nil {
		t.Error("ParseAnchor(left) should fail")
	}
}

func TestResize(t *testing.T) {
	fg, _ := surface.Filled(400, 1000, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	out, err := Resize(fg, surface.Rect{Width: 176, Height: 440})
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 176 || out.Height() != 440 {
		t.Fatalf("Resize = %dx%d, want 176x440", out.Width(), out.Height())
	}
	if got := out.At(88, 220); got.G < 195 || got.A != 255 {
		t.Errorf("uniform image changed color after resize: %v", got)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
