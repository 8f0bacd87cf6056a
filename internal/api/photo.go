package api

import (
	"net/http"
	"strings"

	"github.com/draddo11/Holiday/pkg/core/composite"
	"github.com/draddo11/Holiday/pkg/core/surface"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations"
	"github.com/draddo11/Holiday/pkg/pipeline"
	"github.com/draddo11/Holiday/pkg/producer"
)

// PhotoOptions tune the compositor. Unset fields take the server defaults;
// cue switches default to on.
type PhotoOptions struct {
	HeightFraction   float64  `json:"heightFraction,omitempty"`
	Anchor           string   `json:"anchor,omitempty"`
	MarginFraction   *float64 `json:"marginFraction,omitempty"`
	Shadow           *bool    `json:"shadow,omitempty"`
	Occlusion        *bool    `json:"occlusion,omitempty"`
	ColorMatch       *bool    `json:"colorMatch,omitempty"`
	Glow             *bool    `json:"glow,omitempty"`
	Format           string   `json:"format,omitempty"`
	Quality          int      `json:"quality,omitempty"`
	SkipSegmentation bool     `json:"skipSegmentation,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"`
}

// PhotoRequest is the body of the photo endpoints. The background is
// BackgroundImageURL when set, else the landmark's photo.
type PhotoRequest struct {
	UserImage          string        `json:"userImage"`
	LandmarkID         string        `json:"landmarkId,omitempty"`
	BackgroundImageURL string        `json:"backgroundImageUrl,omitempty"`
	UseAI              *bool         `json:"useAI,omitempty"`
	Options            *PhotoOptions `json:"options,omitempty"`
}

// PhotoResponse is returned by /generate-travel-photo.
type PhotoResponse struct {
	GeneratedImageURL string                 `json:"generatedImageUrl"`
	Mode              string                 `json:"mode"`
	Producer          string                 `json:"producer"`
	Placement         *surface.Rect          `json:"placement,omitempty"`
	AppliedCues       []string               `json:"appliedCues,omitempty"`
	SkippedCues       []composite.SkippedCue `json:"skippedCues,omitempty"`
}

// CompositeResponse is returned by /composite.
type CompositeResponse struct {
	ImageURL    string                 `json:"imageUrl"`
	Placement   surface.Rect           `json:"placement"`
	AppliedCues []string               `json:"appliedCues"`
	SkippedCues []composite.SkippedCue `json:"skippedCues"`
}

func (s *Server) handleLandmarks(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, r, http.StatusOK, s.data.Landmarks)
}

func (s *Server) handleSearchLocationImage(w http.ResponseWriter, r *http.Request) {
	location, err := requireQuery(r, "location")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if !s.search.Configured() {
		if lms := s.data.LandmarksFor(location); len(lms) > 0 {
			WriteJSONResponse(w, r, http.StatusOK, map[string]string{"imageUrl": lms[0].ImageURL, "source": "fallback"})
			return
		}
		ErrorResponse(w, r, apperr.New(apperr.ErrCodeUnavailable, "image search is not configured"))
		return
	}

	results, err := s.search.Images(r.Context(), location+" landmark", false)
	if err != nil {
		ErrorResponse(w, r, integrations.Classify(err, apperr.ErrCodeNetwork, "image search for %q", location))
		return
	}
	for _, res := range results {
		if strings.HasPrefix(res.Original, "http") {
			WriteJSONResponse(w, r, http.StatusOK, map[string]string{"imageUrl": res.Original, "source": "live"})
			return
		}
	}
	ErrorResponse(w, r, apperr.New(apperr.ErrCodeNotFound, "no images found for %q", location))
}

func (s *Server) handleGenerateTravelPhoto(w http.ResponseWriter, r *http.Request) {
	var req PhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	preq, err := s.photoRequest(req)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var p producer.ImageProducer = s.photos
	if req.UseAI != nil && !*req.UseAI {
		p = s.compositor
	}
	preq.Options.Logger = loggerFrom(r.Context())
	out, err := p.Produce(r.Context(), preq)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if out.Producer == "" {
		out.Producer = p.Name()
	}

	WriteJSONResponse(w, r, http.StatusOK, PhotoResponse{
		GeneratedImageURL: out.ImageURL,
		Mode:              out.Mode,
		Producer:          out.Producer,
		Placement:         out.Placement,
		AppliedCues:       out.Applied,
		SkippedCues:       out.Skipped,
	})
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	var req PhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	preq, err := s.photoRequest(req)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	preq.Options.Logger = loggerFrom(r.Context())
	out, err := s.compositor.Produce(r.Context(), preq)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	resp := CompositeResponse{
		ImageURL:    out.ImageURL,
		AppliedCues: out.Applied,
		SkippedCues: out.Skipped,
	}
	if out.Placement != nil {
		resp.Placement = *out.Placement
	}
	if resp.AppliedCues == nil {
		resp.AppliedCues = []string{}
	}
	if resp.SkippedCues == nil {
		resp.SkippedCues = []composite.SkippedCue{}
	}
	WriteJSONResponse(w, r, http.StatusOK, resp)
}

// photoRequest validates req, resolves the background and merges the
// options over the server defaults.
func (s *Server) photoRequest(req PhotoRequest) (producer.Request, error) {
	if strings.TrimSpace(req.UserImage) == "" {
		return producer.Request{}, apperr.New(apperr.ErrCodeInvalidInput, "missing user image")
	}

	background := strings.TrimSpace(req.BackgroundImageURL)
	if background == "" {
		if req.LandmarkID == "" {
			return producer.Request{}, apperr.New(apperr.ErrCodeInvalidInput, "missing landmarkId or backgroundImageUrl")
		}
		lm, ok := s.data.Landmark(req.LandmarkID)
		if !ok {
			return producer.Request{}, apperr.New(apperr.ErrCodeInvalidInput, "invalid landmark id %q", req.LandmarkID)
		}
		background = lm.ImageURL
	} else if !strings.HasPrefix(background, "data:") {
		if err := apperr.ValidateURL(background); err != nil {
			return producer.Request{}, err
		}
	}

	return producer.Request{
		Foreground: req.UserImage,
		Background: background,
		Options:    s.options(req.Options),
	}, nil
}

// options merges per-request options over the configured defaults.
func (s *Server) options(o *PhotoOptions) pipeline.Options {
	d := s.defaults
	margin := d.MarginFraction
	depthParams := d.Depth
	finishParams := d.Finish
	opts := pipeline.Options{
		HeightFraction: d.HeightFraction,
		Anchor:         d.Anchor,
		MarginFraction: &margin,
		Format:         d.Format,
		Quality:        d.Quality,
		Depth:          &depthParams,
		Finish:         &finishParams,
	}
	if o == nil {
		return opts
	}

	if o.HeightFraction != 0 {
		opts.HeightFraction = o.HeightFraction
	}
	if o.Anchor != "" {
		opts.Anchor = o.Anchor
	}
	if o.MarginFraction != nil {
		opts.MarginFraction = o.MarginFraction
	}
	if o.Format != "" {
		opts.Format = o.Format
	}
	if o.Quality != 0 {
		opts.Quality = o.Quality
	}
	opts.NoShadow = isOff(o.Shadow)
	opts.NoOcclusion = isOff(o.Occlusion)
	opts.NoColorMatch = isOff(o.ColorMatch)
	opts.NoGlow = isOff(o.Glow)
	opts.SkipSegmentation = o.SkipSegmentation
	opts.Refresh = o.Refresh
	return opts
}

func isOff(b *bool) bool { return b != nil && !*b }
