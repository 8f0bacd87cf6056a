package segment

import (
	"context"

	"github.com/draddo11/Holiday/pkg/acquire"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
)

// Replicate removes the background with the hosted model.
type Replicate struct {
	Client  *replicate.Client
	Fetcher acquire.Fetcher
	Model   string
}

// NewReplicate returns a remover using client. The result image is
// downloaded with f, or a default HTTP fetcher when f is nil.
func NewReplicate(client *replicate.Client, f acquire.Fetcher) *Replicate {
	if f == nil {
		f = acquire.NewHTTPFetcher(nil)
	}
	return &Replicate{Client: client, Fetcher: f, Model: replicate.BackgroundRemover}
}

func (r *Replicate) Name() string { return "replicate" }

// Remove uploads s as a PNG data URI and decodes the model's output.
func (r *Replicate) Remove(ctx context.Context, s *surface.Surface) (*surface.Surface, error) {
	if s == nil {
		return nil, apperr.New(apperr.ErrCodeSegmentation, "no foreground")
	}
	data, err := encode.Encode(s.Image(), encode.PNG, 0)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSegmentation, err, "encode upload")
	}
	pred, err := r.Client.Run(ctx, r.Model, map[string]any{
		"image":           encode.DataURI(encode.MIME(encode.PNG), data),
		"background_type": replicate.BackgroundRGBA,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSegmentation, err, "background removal model")
	}
	url, err := pred.OutputURL()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSegmentation, err, "background removal model")
	}
	out, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSegmentation, err, "download cutout")
	}
	cut, err := surface.Decode(out)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeSegmentation, err, "decode cutout")
	}
	return cut, nil
}
