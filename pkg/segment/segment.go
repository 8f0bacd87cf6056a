// Package segment cuts the subject out of a foreground photo.
//
// A [Remover] returns a surface whose background is transparent. The
// package ships three removers and a [Chain] that tries them in order:
//
//   - [Passthrough] accepts input that already has transparency
//   - [Replicate] calls the hosted background-removal model
//   - [CornerKey] keys out the dominant corner color locally
//
// Every failure is a SEGMENTATION_ERROR.
package segment

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/observability"
)

// Remover removes the background from a subject photo.
type Remover interface {
	Name() string
	Remove(ctx context.Context, s *surface.Surface) (*surface.Surface, error)
}

// Passthrough returns input that already carries transparency and rejects
// anything else.
type Passthrough struct{}

func (Passthrough) Name() string { return "passthrough" }

func (Passthrough) Remove(_ context.Context, s *surface.Surface) (*surface.Surface, error) {
	if s == nil {
		return nil, apperr.New(apperr.ErrCodeSegmentation, "no foreground")
	}
	if !s.HasTransparency() {
		return nil, apperr.New(apperr.ErrCodeSegmentation, "foreground has no transparent pixels")
	}
	return s, nil
}

// Chain tries each remover in order and returns the first success.
type Chain struct {
	Removers []Remover
	Logger   *log.Logger
}

// NewChain returns a chain over removers, skipping nil entries.
func NewChain(logger *log.Logger, removers ...Remover) *Chain {
	c := &Chain{Logger: logger}
	for _, r := range removers {
		if r != nil {
			c.Removers = append(c.Removers, r)
		}
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

// Remove returns the first successful result. When every remover fails
// the last error is returned.
func (c *Chain) Remove(ctx context.Context, s *surface.Surface) (*surface.Surface, error) {
	if len(c.Removers) == 0 {
		return nil, apperr.New(apperr.ErrCodeSegmentation, "no background remover configured")
	}
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}

	var lastErr error
	for i, r := range c.Removers {
		out, err := Run(ctx, r, s)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, apperr.Wrap(apperr.ErrCodeSegmentation, ctx.Err(), "background removal cancelled")
		}
		lastErr = err
		if i+1 < len(c.Removers) {
			next := c.Removers[i+1].Name()
			logger.Debug("background remover failed", "remover", r.Name(), "next", next, "err", err)
			observability.Pipeline().OnFallback(ctx, r.Name(), next, err)
		}
	}
	return nil, lastErr
}

// Run calls r and reports the attempt to the pipeline hooks. Errors that
// are not already structured are wrapped as SEGMENTATION_ERROR.
func Run(ctx context.Context, r Remover, s *surface.Surface) (*surface.Surface, error) {
	start := time.Now()
	out, err := r.Remove(ctx, s)
	if err != nil && apperr.GetCode(err) != apperr.ErrCodeSegmentation {
		err = apperr.Wrap(apperr.ErrCodeSegmentation, err, "%s", r.Name())
	}
	observability.Pipeline().OnSegment(ctx, r.Name(), time.Since(start), err)
	return out, err
}
