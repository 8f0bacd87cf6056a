package encode

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: uint8(128 + x%2*127)})
		}
	}
	return img
}

func TestPNGRoundTripIsLossless(t *testing.T) {
	img := gradient(37, 23)
	data, err := Encode(img, PNG, 0)
	if err != nil {
		t.Fatal(err)
	}
	s, err := surface.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(s.Image().Pix) != string(img.Pix) {
		t.Error("PNG round trip changed pixels")
	}
}

func TestJPEGKeepsSizeAndMean(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 180, 90, 40, 255
	}
	data, err := Encode(img, JPEG, 90)
	if err != nil {
		t.Fatal(err)
	}
	s, err := surface.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width() != 64 || s.Height() != 48 {
		t.Fatalf("JPEG size = %dx%d, want 64x48", s.Width(), s.Height())
	}
	mean, _ := s.Mean(surface.Rect{Width: 64, Height: 48})
	if math.Abs(mean.R-180) > 4 || math.Abs(mean.G-90) > 4 || math.Abs(mean.B-40) > 4 {
		t.Errorf("JPEG mean = %+v, want about {180 90 40}", mean)
	}
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	_, err := Encode(gradient(2, 2), Format("tiff"), 0)
	if !apperr.Is(err, apperr.ErrCodeEncoding) {
		t.Errorf("error = %v, want ENCODING_ERROR", err)
	}
	_, err = Encode(image.NewNRGBA(image.Rect(0, 0, 0, 0)), PNG, 0)
	if !apperr.Is(err, apperr.ErrCodeEncoding) {
		t.Errorf("empty image error = %v, want ENCODING_ERROR", err)
	}
}

func TestQuality(t *testing.T) {
	tests := []struct{ in, want int }{{0, 95}, {-3, 95}, {1, 1}, {80, 80}, {150, 100}}
	for _, tt := range tests {
		if got := Quality(tt.in); got != tt.want {
			t.Errorf("Quality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "PNG": PNG, "jpg": JPEG, "jpeg": JPEG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
	if MIME(JPEG) != "image/jpeg" || MIME(PNG) != "image/png" {
		t.Error("unexpected MIME types")
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2}
	uri := DataURI("image/png", payload)
	if uri[:22] != "data:image/png;base64," {
		t.Fatalf("DataURI prefix = %q", uri[:22])
	}
	mime, data, err := ParseDataURI(uri)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "image/png" || string(data) != string(payload) {
		t.Errorf("ParseDataURI = %q, %v", mime, data)
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMIME string
		wantErr  bool
	}{
		{"bare base64", "aGVsbG8=", "", false},
		{"unpadded", "aGVsbG8", "", false},
		{"with params", "data:image/jpeg;name=x.jpg;base64,aGVsbG8=", "image/jpeg", false},
		{"empty", "", "", true},
		{"no comma", "data:image/png;base64", "", true},
		{"not base64 encoded", "data:image/png,rawbytes", "", true},
		{"bad payload", "data:image/png;base64,!!!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, _, err := ParseDataURI(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT", apperr.GetCode(err))
			}
			if mime != tt.wantMIME {
				t.Errorf("mime = %q, want %q", mime, tt.wantMIME)
			}
		})
	}
}

