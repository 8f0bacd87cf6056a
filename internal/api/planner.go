package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/draddo11/Holiday/pkg/core/encode"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/travel"
)

// SceneRequest is the body of /generate-weather-scene. Missing weather is
// looked up; a missing season is derived from the date.
type SceneRequest struct {
	Destination string   `json:"destination"`
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"weather_condition"`
	Season      *string  `json:"season"`
}

// SceneResponse is returned by /generate-weather-scene.
type SceneResponse struct {
	Success     bool          `json:"success"`
	Destination string        `json:"destination"`
	Temperature float64       `json:"temperature"`
	Condition   string        `json:"weather_condition"`
	Season      travel.Season `json:"season"`
	ImageURL    string        `json:"image_url"`
	Source      string        `json:"source"`
	Model       string        `json:"model,omitempty"`
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	var req travel.ItineraryRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := req.Normalize(); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	WriteJSONResponse(w, r, http.StatusOK, s.itinerary(r.Context(), req))
}

// itinerary asks the language model for a plan and falls back to the
// template plan on any failure.
func (s *Server) itinerary(ctx context.Context, req travel.ItineraryRequest) *travel.Itinerary {
	logger := loggerFrom(ctx)
	if !s.gemini.Configured() {
		return s.data.ItineraryFallback(req)
	}

	guide, _ := s.data.Guide(req.Destination)
	prompt := travel.ItineraryPrompt(req, guide, s.flightPrices(ctx, req.Origin, req.Destination), s.hotelPrices(ctx, req.Destination))
	raw, err := s.gemini.GenerateJSON(ctx, prompt)
	if err == nil {
		var it *travel.Itinerary
		if it, err = travel.ParseItinerary(raw, req); err == nil {
			return it
		}
	}
	logger.Warn("itinerary generation failed, using template", "destination", req.Destination, "err", err)
	return s.data.ItineraryFallback(req)
}

func (s *Server) handleWeatherScene(w http.ResponseWriter, r *http.Request) {
	var req SceneRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	if err := apperr.ValidateDestination(req.Destination); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	scene, err := s.sceneRequest(r.Context(), req)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	resp := SceneResponse{
		Success:     true,
		Destination: scene.Destination,
		Temperature: scene.Temperature,
		Condition:   scene.Condition,
		Season:      scene.Season,
	}

	if s.gemini.Configured() {
		img, err := s.gemini.GenerateImage(r.Context(), travel.ScenePrompt(scene))
		if err == nil {
			resp.ImageURL = encode.DataURI(img.MIME, img.Data)
			resp.Source = travel.SourceAI
			resp.Model = img.Model
			WriteJSONResponse(w, r, http.StatusOK, resp)
			return
		}
		loggerFrom(r.Context()).Warn("scene generation failed, drawing postcard", "destination", scene.Destination, "err", err)
	}

	card, err := travel.RenderScene(scene, travel.SceneSize)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	data, err := encode.Encode(card.Image(), encode.PNG, 0)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	resp.ImageURL = encode.DataURI(encode.MIME(encode.PNG), data)
	resp.Source = travel.SourceFallback
	WriteJSONResponse(w, r, http.StatusOK, resp)
}

// sceneRequest fills missing weather and season.
func (s *Server) sceneRequest(ctx context.Context, req SceneRequest) (travel.SceneRequest, error) {
	scene := travel.SceneRequest{
		Destination: strings.TrimSpace(req.Destination),
		Condition:   strings.TrimSpace(req.Condition),
	}
	if req.Temperature == nil || scene.Condition == "" {
		report := s.weatherReport(ctx, scene.Destination)
		if req.Temperature == nil {
			scene.Temperature = report.Temperature
		}
		if scene.Condition == "" {
			scene.Condition = report.Condition
		}
	}
	if req.Temperature != nil {
		scene.Temperature = *req.Temperature
	}

	if req.Season != nil {
		season, err := travel.ParseSeason(*req.Season)
		if err != nil {
			return travel.SceneRequest{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid season")
		}
		scene.Season = season
	}
	if scene.Season == "" {
		scene.Season = travel.SeasonFor(s.now())
	}
	return scene, nil
}
