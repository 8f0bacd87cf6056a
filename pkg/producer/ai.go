package producer

import (
	"context"
	"net/http"
	"strings"

	"github.com/draddo11/Holiday/pkg/acquire"
	"github.com/draddo11/Holiday/pkg/core/encode"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
)

// AI produces the photo with the hosted background-swap model.
type AI struct {
	Client   *replicate.Client
	Acquirer *acquire.Acquirer
	Model    string
}

// NewAI returns an AI link. The acquirer supplies the background bytes
// the model needs inline.
func NewAI(client *replicate.Client, acq *acquire.Acquirer) *AI {
	return &AI{Client: client, Acquirer: acq, Model: replicate.BackgroundRemover}
}

func (a *AI) Name() string { return "ai" }

// Produce sends both images to the model. Model and API failures are
// GENERATION_ERROR; input failures keep their own codes.
func (a *AI) Produce(ctx context.Context, req Request) (*Output, error) {
	if !a.Client.Configured() {
		return nil, apperr.New(apperr.ErrCodeGeneration, "image generation is not configured")
	}

	fg, err := a.inline(ctx, req.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := a.Acquirer.Background(ctx, req.Background)
	if err != nil {
		return nil, err
	}

	pred, err := a.Client.Run(ctx, a.Model, map[string]any{
		"image":           fg,
		"background_type": encode.DataURI(http.DetectContentType(bg.Data), bg.Data),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeGeneration, err, "background swap model")
	}
	url, err := pred.OutputURL()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeGeneration, err, "background swap model")
	}
	return &Output{Mode: ModeAI, ImageURL: url}, nil
}

// inline returns ref as a data URI, fetching it when it is a URL.
func (a *AI) inline(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "data:") {
		if _, _, err := encode.ParseDataURI(ref); err != nil {
			return "", err
		}
		return ref, nil
	}
	data, err := a.Acquirer.Bytes(ctx, ref)
	if err != nil {
		return "", err
	}
	return encode.DataURI(http.DetectContentType(data), data), nil
}
