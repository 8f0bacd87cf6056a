package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	apperr "github.com/draddo11/Holiday/pkg/errors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewRejectsZeroSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		_, err := New(sz[0], sz[1])
		if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
			t.Errorf("New(%d, %d) error = %v, want INVALID_INPUT", sz[0], sz[1], err)
		}
	}
}

func TestDecodePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	s, err := Decode(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if s.Width() != 3 || s.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", s.Width(), s.Height())
	}
	if got := s.At(1, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 128}) {
		t.Errorf("At(1,1) = %v", got)
	}
	if !s.HasTransparency() {
		t.Error("HasTransparency should be true")
	}
}

func TestDecodeJPEGIsOpaque(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}
	s, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if s.HasTransparency() {
		t.Error("decoded JPEG should be opaque")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image")} {
		_, err := Decode(data)
		if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
			t.Errorf("Decode(%q) error = %v, want INVALID_INPUT", data, err)
		}
	}
}

func TestFromImageRebasesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 1, A: 255})

	s, err := FromImage(src)
	if err != nil {
		t.Fatal(err)
	}
	if s.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("Bounds() = %v, want origin-anchored 4x2", s.Bounds())
	}
	if s.At(0, 0).R != 1 {
		t.Error("pixel did not move with the origin")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s, _ := Filled(2, 2, color.NRGBA{R: 50, A: 255})
	c := s.Clone()
	c.Pix[0] = 99
	if s.At(0, 0).R != 50 {
		t.Error("modifying a clone changed the surface")
	}
}

func TestMean(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
			if x < 2 {
				c.R = 200
			} else {
				c.B = 100
			}
			img.SetNRGBA(x, y, c)
		}
	}
	s, _ := Adopt(img)

	got, err := s.Mean(Rect{X: 0, Y: 0, Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got.R != 100 || got.G != 0 || got.B != 50 {
		t.Errorf("Mean = %+v, want {100 0 50}", got)
	}

	clipped, err := s.Mean(Rect{X: -10, Y: -10, Width: 12, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	if clipped.R != 200 || clipped.B != 0 {
		t.Errorf("clipped Mean = %+v, want left half only", clipped)
	}

	if _, err := s.Mean(Rect{X: 10, Y: 10, Width: 5, Height: 5}); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("Mean outside bounds error = %v, want INVALID_INPUT", err)
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 312, Y: 320, Width: 176, Height: 440}
	if !r.Within(800, 800) {
		t.Error("rect should fit in 800x800")
	}
	if r.Within(400, 800) {
		t.Error("rect should not fit in 400x800")
	}
	if got := r.Pad(50); got != (Rect{X: 262, Y: 270, Width: 276, Height: 540}) {
		t.Errorf("Pad(50) = %+v", got)
	}
	if RectFrom(r.Image()) != r {
		t.Error("Image/RectFrom should round-trip")
	}
	if r.String() != "176x440+312+320" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestColorSample(t *testing.T) {
	c := ColorSample{R: 254.5, G: 0.49, B: 300}
	r, g, b := c.RGB()
	if r != 255 || g != 0 || b != 255 {
		t.Errorf("RGB() = %d,%d,%d, want 255,0,255", r, g, b)
	}
	if got := (ColorSample{R: 255, G: 128, B: 0}).Hex(); got != "#ff8000" {
		t.Errorf("Hex() = %q, want #ff8000", got)
	}
}
