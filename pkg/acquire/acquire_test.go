package acquire

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/core/encode"
	apperr "github.com/draddo11/Holiday/pkg/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func imageServer(t *testing.T, data []byte, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/broken.png" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBackgroundCached(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, pngBytes(t, 8, 6), &hits)

	mem := cache.NewMemoryCache(time.Hour, time.Minute)
	defer mem.Close()
	a := New(NewHTTPFetcher(srv.Client()), mem, nil)

	for i := 0; i < 3; i++ {
		in, err := a.Background(context.Background(), srv.URL+"/bg.png")
		if err != nil {
			t.Fatalf("Background() error: %v", err)
		}
		if in.Surface.Width() != 8 || in.Surface.Height() != 6 {
			t.Errorf("size = %v, want 8x6", in.Surface.Bounds().Size())
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestSharedFetchSurvivesCancelledCaller(t *testing.T) {
	data := pngBytes(t, 8, 6)
	started := make(chan struct{})
	release := make(chan struct{})
	var fetches atomic.Int32
	a := New(FetchFunc(func(ctx context.Context, _ string) ([]byte, error) {
		if fetches.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return data, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}), nil, nil)
	const url = "https://example.com/bg.png"

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := a.Background(ctxA, url)
		errA <- err
	}()
	<-started

	type result struct {
		in  *Input
		err error
	}
	resB := make(chan result, 1)
	go func() {
		in, err := a.Background(context.Background(), url)
		resB <- result{in, err}
	}()
	time.Sleep(50 * time.Millisecond) // let B join the in-flight fetch

	cancelA()
	if err := <-errA; err == nil {
		t.Error("cancelled caller should get an error")
	}

	close(release)
	b := <-resB
	if b.err != nil {
		t.Fatalf("live caller failed: %v", b.err)
	}
	if b.in.Surface.Width() != 8 {
		t.Errorf("width = %d, want 8", b.in.Surface.Width())
	}
	if got := fetches.Load(); got != 1 {
		t.Errorf("fetched %d times, want 1", got)
	}
}

func TestForegroundNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, pngBytes(t, 4, 4), &hits)

	mem := cache.NewMemoryCache(time.Hour, time.Minute)
	defer mem.Close()
	a := New(NewHTTPFetcher(srv.Client()), mem, nil)

	for i := 0; i < 2; i++ {
		if _, err := a.Foreground(context.Background(), srv.URL+"/fg.png"); err != nil {
			t.Fatal(err)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hit %d times, want 2", got)
	}
}

func TestFetchErrorsAreNetworkErrors(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, nil, &hits)
	a := New(NewHTTPFetcher(srv.Client()), nil, nil)

	for _, path := range []string{"/missing.png", "/broken.png"} {
		_, err := a.Background(context.Background(), srv.URL+path)
		if !apperr.Is(err, apperr.ErrCodeNetwork) {
			t.Errorf("%s: error = %v, want NETWORK_ERROR", path, err)
		}
	}
}

func TestUndecodableIsInvalidInput(t *testing.T) {
	a := New(FetchFunc(func(context.Context, string) ([]byte, error) {
		return []byte("<html>not an image</html>"), nil
	}), nil, nil)

	_, err := a.Background(context.Background(), "https://example.com/page")
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestDataURIForeground(t *testing.T) {
	data := pngBytes(t, 5, 7)
	a := New(FetchFunc(func(context.Context, string) ([]byte, error) {
		t.Fatal("data URI must not be fetched")
		return nil, nil
	}), nil, nil)

	in, err := a.Foreground(context.Background(), encode.DataURI("image/png", data))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in.Data, data) {
		t.Error("decoded bytes differ from the upload")
	}
	if in.Surface.At(0, 0) != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %v", in.Surface.At(0, 0))
	}
}

func TestFileReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.png")
	if err := os.WriteFile(path, pngBytes(t, 3, 3), 0o644); err != nil {
		t.Fatal(err)
	}

	a := New(nil, nil, nil)
	if _, err := a.Foreground(context.Background(), path); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("file reference without AllowFiles: error = %v", err)
	}

	a.AllowFiles = true
	in, err := a.Foreground(context.Background(), path)
	if err != nil {
		t.Fatalf("AllowFiles: %v", err)
	}
	if in.Surface.Width() != 3 {
		t.Errorf("width = %d, want 3", in.Surface.Width())
	}
}

func TestPair(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, pngBytes(t, 10, 10), &hits)
	a := New(NewHTTPFetcher(srv.Client()), nil, nil)

	fg, bg, err := a.Pair(context.Background(), encode.DataURI("image/png", pngBytes(t, 2, 4)), srv.URL+"/bg.png")
	if err != nil {
		t.Fatal(err)
	}
	if fg.Surface.Height() != 4 || bg.Surface.Height() != 10 {
		t.Errorf("fg %v bg %v", fg.Surface.Bounds(), bg.Surface.Bounds())
	}

	_, _, err = a.Pair(context.Background(), "", srv.URL+"/bg.png")
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("missing foreground: error = %v", err)
	}
}

func TestBytesEmptyReference(t *testing.T) {
	_, err := New(nil, nil, nil).Bytes(context.Background(), "   ")
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
