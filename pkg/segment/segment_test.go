package segment

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draddo11/Holiday/pkg/acquire"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
)

// portrait is a red 20x40 block centered on a 60x60 backdrop.
func portrait(t *testing.T, backdrop color.NRGBA) *surface.Surface {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			c := backdrop
			if x >= 20 && x < 40 && y >= 10 && y < 50 {
				c = color.NRGBA{R: 200, G: 30, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	s, err := surface.Adopt(img)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestPassthrough(t *testing.T) {
	opaque := portrait(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	if _, err := (Passthrough{}).Remove(context.Background(), opaque); !apperr.Is(err, apperr.ErrCodeSegmentation) {
		t.Errorf("opaque input: error = %v", err)
	}

	cut := portrait(t, color.NRGBA{})
	out, err := (Passthrough{}).Remove(context.Background(), cut)
	if err != nil {
		t.Fatal(err)
	}
	if out != cut {
		t.Error("passthrough should return its input")
	}
}

func TestCornerKey(t *testing.T) {
	s := portrait(t, color.NRGBA{R: 245, G: 245, B: 245, A: 255})
	out, err := DefaultCornerKey().Remove(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if a := out.At(2, 2).A; a != 0 {
		t.Errorf("backdrop alpha = %d, want 0", a)
	}
	if got := out.At(30, 30); got != (color.NRGBA{R: 200, G: 30, B: 30, A: 255}) {
		t.Errorf("subject = %v, want untouched", got)
	}
	if s.HasTransparency() {
		t.Error("input was modified")
	}
}

func TestCornerKeyRejects(t *testing.T) {
	uniform, _ := surface.Filled(40, 40, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	if _, err := DefaultCornerKey().Remove(context.Background(), uniform); !apperr.Is(err, apperr.ErrCodeSegmentation) {
		t.Errorf("uniform image: error = %v", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 6), G: uint8(y * 6), B: 90, A: 255})
		}
	}
	gradient, _ := surface.Adopt(img)
	if _, err := DefaultCornerKey().Remove(context.Background(), gradient); !apperr.Is(err, apperr.ErrCodeSegmentation) {
		t.Errorf("gradient corners: error = %v", err)
	}
}

type failing struct{ err error }

func (failing) Name() string { return "failing" }

func (f failing) Remove(context.Context, *surface.Surface) (*surface.Surface, error) {
	return nil, f.err
}

func TestChain(t *testing.T) {
	s := portrait(t, color.NRGBA{R: 245, G: 245, B: 245, A: 255})

	c := NewChain(nil, failing{errors.New("model down")}, nil, DefaultCornerKey())
	if len(c.Removers) != 2 {
		t.Fatalf("nil remover kept: %d", len(c.Removers))
	}
	out, err := c.Remove(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if !out.HasTransparency() {
		t.Error("chain result has no transparency")
	}

	c = NewChain(nil, failing{errors.New("a")}, failing{errors.New("b")})
	_, err = c.Remove(context.Background(), s)
	if !apperr.Is(err, apperr.ErrCodeSegmentation) || !strings.Contains(err.Error(), "b") {
		t.Errorf("error = %v, want last failure as SEGMENTATION_ERROR", err)
	}

	if _, err := NewChain(nil).Remove(context.Background(), s); !apperr.Is(err, apperr.ErrCodeSegmentation) {
		t.Errorf("empty chain: error = %v", err)
	}
}

func TestReplicateRemover(t *testing.T) {
	cut := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	cut.SetNRGBA(3, 3, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	png.Encode(&buf, cut)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predictions":
			w.Write([]byte(`{"id":"x","status":"succeeded","output":"` + srv.URL + `/out.png"}`))
		case "/out.png":
			w.Write(buf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := replicate.NewClient("token", nil, 0)
	client.SetHTTPClient(srv.Client())
	client.SetBaseURL(srv.URL)

	r := NewReplicate(client, acquire.NewHTTPFetcher(srv.Client()))
	out, err := r.Remove(context.Background(), portrait(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 6 || out.At(3, 3).R != 255 || out.At(0, 0).A != 0 {
		t.Errorf("unexpected cutout %v", out.Bounds())
	}

	_, err = NewReplicate(replicate.NewClient("", nil, 0), nil).Remove(context.Background(), out)
	if !apperr.Is(err, apperr.ErrCodeSegmentation) {
		t.Errorf("unconfigured: error = %v", err)
	}
}
