package producer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/acquire"
	"github.com/draddo11/Holiday/pkg/core/encode"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
	"github.com/draddo11/Holiday/pkg/pipeline"
)

var quiet = log.New(io.Discard)

func pngURI(t *testing.T, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := h / 4; y < h; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return encode.DataURI("image/png", buf.Bytes())
}

type stub struct {
	name  string
	err   error
	calls int
}

func (s *stub) Name() string { return s.name }

func (s *stub) Produce(context.Context, Request) (*Output, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Output{Mode: s.name, ImageURL: "https://example.com/" + s.name}, nil
}

func TestChainFallsBackOnGenerationError(t *testing.T) {
	ai := &stub{name: "ai", err: apperr.New(apperr.ErrCodeGeneration, "model down")}
	comp := &stub{name: "compositor"}

	out, err := NewChain(quiet, ai, nil, comp).Produce(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Producer != "compositor" || ai.calls != 1 || comp.calls != 1 {
		t.Errorf("out %+v, ai calls %d, compositor calls %d", out, ai.calls, comp.calls)
	}
}

func TestChainStopsOnOtherErrors(t *testing.T) {
	for _, err := range []error{
		apperr.New(apperr.ErrCodeInvalidInput, "bad upload"),
		apperr.New(apperr.ErrCodeNetwork, "background unreachable"),
		errors.New("plain"),
	} {
		ai := &stub{name: "ai", err: err}
		comp := &stub{name: "compositor"}
		_, got := NewChain(quiet, ai, comp).Produce(context.Background(), Request{})
		if got != err {
			t.Errorf("error = %v, want %v", got, err)
		}
		if comp.calls != 0 {
			t.Errorf("%v: compositor called", err)
		}
	}
}

func TestChainLastErrorReturned(t *testing.T) {
	last := apperr.New(apperr.ErrCodeGeneration, "second")
	_, err := NewChain(quiet,
		&stub{name: "a", err: apperr.New(apperr.ErrCodeGeneration, "first")},
		&stub{name: "b", err: last},
	).Produce(context.Background(), Request{})
	if err != last {
		t.Errorf("error = %v, want the last link's error", err)
	}

	if _, err := NewChain(quiet).Produce(context.Background(), Request{}); !apperr.Is(err, apperr.ErrCodeUnavailable) {
		t.Errorf("empty chain: error = %v", err)
	}
}

func replicateServer(t *testing.T, status int, body string) *replicate.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c := replicate.NewClient("token", nil, 0)
	c.SetHTTPClient(srv.Client())
	c.SetBaseURL(srv.URL)
	return c
}

func TestAIProduces(t *testing.T) {
	client := replicateServer(t, http.StatusCreated, `{"id":"p","status":"succeeded","output":"https://replicate.delivery/p.png"}`)
	ai := NewAI(client, acquire.New(nil, nil, nil))

	out, err := ai.Produce(context.Background(), Request{
		Foreground: pngURI(t, 8, 8, color.NRGBA{R: 255, A: 255}),
		Background: pngURI(t, 16, 16, color.NRGBA{B: 255, A: 255}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Mode != ModeAI || out.ImageURL != "https://replicate.delivery/p.png" {
		t.Errorf("out = %+v", out)
	}
}

func TestAIFailureFallsBackToCompositor(t *testing.T) {
	client := replicateServer(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	runner := pipeline.NewRunner(nil, nil, quiet)
	chain := NewChain(quiet, NewAI(client, runner.Acquirer), NewCompositor(runner))

	out, err := chain.Produce(context.Background(), Request{
		Foreground: pngURI(t, 20, 40, color.NRGBA{R: 200, G: 50, B: 50, A: 255}),
		Background: pngURI(t, 100, 80, color.NRGBA{G: 160, B: 220, A: 255}),
	})
	if err != nil {
		t.Fatalf("Produce() error: %v", err)
	}
	if out.Mode != ModeComposite || out.Producer != "compositor" {
		t.Errorf("out mode %q producer %q", out.Mode, out.Producer)
	}
	if !strings.HasPrefix(out.ImageURL, "data:image/png;base64,") {
		t.Errorf("ImageURL prefix = %.30q", out.ImageURL)
	}
	if out.Placement == nil || out.Placement.Height != 48 {
		t.Errorf("placement = %v", out.Placement)
	}
}

func TestAIUnconfigured(t *testing.T) {
	ai := NewAI(replicate.NewClient("", nil, 0), acquire.New(nil, nil, nil))
	_, err := ai.Produce(context.Background(), Request{})
	if !apperr.Is(err, apperr.ErrCodeGeneration) {
		t.Errorf("error = %v, want GENERATION_ERROR", err)
	}
}
