// Package producer turns a subject photo and a landmark into a travel
// photo, degrading gracefully.
//
// An [ImageProducer] is one way of making the photo. [Chain] tries them in
// order: a link that fails with GENERATION_ERROR hands over to the next
// one; any other error (bad input, unreachable background) ends the
// chain, since the next link would fail the same way.
//
//	chain := producer.NewChain(logger,
//	    producer.NewAI(replicateClient, acquirer),
//	    producer.NewCompositor(runner),
//	)
//	out, err := chain.Produce(ctx, producer.Request{Foreground: upload, Background: url})
package producer

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/core/composite"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/observability"
	"github.com/draddo11/Holiday/pkg/pipeline"
)

// Modes reported in [Output.Mode].
const (
	ModeAI        = "ai"
	ModeComposite = "composite"
)

// Request is one photo to produce.
type Request struct {
	// Foreground is the subject: a data URI or URL.
	Foreground string
	// Background is the landmark: a URL or data URI.
	Background string
	// Options tune the compositor. Its Foreground and Background fields
	// are ignored.
	Options pipeline.Options
}

// Output is a produced photo.
type Output struct {
	Mode string
	// ImageURL is a hosted URL (AI) or a data URI (composite).
	ImageURL string
	Producer string

	// Set by the compositor only.
	Placement *surface.Rect
	Applied   []string
	Skipped   []composite.SkippedCue
}

// ImageProducer makes a travel photo.
type ImageProducer interface {
	Name() string
	Produce(ctx context.Context, req Request) (*Output, error)
}

// Chain tries producers in order.
type Chain struct {
	Producers []ImageProducer
	Logger    *log.Logger
}

// NewChain returns a chain over producers, skipping nil entries.
func NewChain(logger *log.Logger, producers ...ImageProducer) *Chain {
	c := &Chain{Logger: logger}
	for _, p := range producers {
		if p != nil {
			c.Producers = append(c.Producers, p)
		}
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

// Produce returns the first link's output. Only GENERATION_ERROR falls
// through to the next link; the last link's error is returned as is.
func (c *Chain) Produce(ctx context.Context, req Request) (*Output, error) {
	if len(c.Producers) == 0 {
		return nil, apperr.New(apperr.ErrCodeUnavailable, "no image producer configured")
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	var err error
	for i, p := range c.Producers {
		var out *Output
		if out, err = p.Produce(ctx, req); err == nil {
			out.Producer = p.Name()
			return out, nil
		}
		if i == len(c.Producers)-1 || !apperr.Is(err, apperr.ErrCodeGeneration) || ctx.Err() != nil {
			break
		}
		next := c.Producers[i+1].Name()
		logger.Warn("producer failed, falling back", "producer", p.Name(), "next", next, "err", err)
		observability.Pipeline().OnFallback(ctx, p.Name(), next, err)
	}
	return nil, err
}

// Compositor produces the photo with the deterministic pipeline.
type Compositor struct {
	Runner *pipeline.Runner
}

// NewCompositor returns a compositor link over runner.
func NewCompositor(runner *pipeline.Runner) *Compositor {
	return &Compositor{Runner: runner}
}

func (c *Compositor) Name() string { return "compositor" }

func (c *Compositor) Produce(ctx context.Context, req Request) (*Output, error) {
	opts := req.Options
	opts.Foreground = req.Foreground
	opts.Background = req.Background
	res, err := c.Runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	placement := res.Placement
	return &Output{
		Mode:      ModeComposite,
		ImageURL:  res.DataURI(),
		Placement: &placement,
		Applied:   res.Applied,
		Skipped:   res.Skipped,
	}, nil
}
