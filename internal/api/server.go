// Package api serves the travelsnap HTTP API.
//
// The API backs the web client: travel photos (AI with a deterministic
// compositor fallback), destination lookups (images, prices, events,
// weather) and AI trip planning. Every lookup degrades to the static tables
// in pkg/travel when its upstream is unconfigured or failing, so only
// malformed requests and photo failures produce error responses.
//
// Errors are JSON objects:
//
//	{"error": "missing location parameter", "code": "INVALID_INPUT"}
//
// with the status from errors.HTTPStatus.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/draddo11/Holiday/internal/config"
	"github.com/draddo11/Holiday/pkg/integrations/gemini"
	"github.com/draddo11/Holiday/pkg/integrations/openmeteo"
	"github.com/draddo11/Holiday/pkg/integrations/serpapi"
	"github.com/draddo11/Holiday/pkg/pipeline"
	"github.com/draddo11/Holiday/pkg/producer"
	"github.com/draddo11/Holiday/pkg/travel"
)

// Deps are the collaborators behind the handlers. Runner is required;
// nil clients make the matching endpoints answer from the static tables.
type Deps struct {
	Logger *log.Logger
	Data   *travel.Data
	Runner *pipeline.Runner

	// AI is tried before the compositor when a request allows it.
	AI producer.ImageProducer

	Search  *serpapi.Client
	Weather *openmeteo.Client
	Gemini  *gemini.Client

	Defaults      config.Composite
	AllowedOrigin string
	MaxBodyBytes  int64
	Version       string

	// Now is the clock used for seasons and travel dates.
	Now func() time.Time
}

// Server holds the wired handlers.
type Server struct {
	logger     *log.Logger
	data       *travel.Data
	compositor *producer.Compositor
	photos     *producer.Chain
	aiEnabled  bool
	search     *serpapi.Client
	weather    *openmeteo.Client
	gemini     *gemini.Client
	defaults   config.Composite
	origin     string
	maxBody    int64
	version    string
	now        func() time.Time
}

// New wires a server. Zero-valued Deps fields get defaults: the embedded
// tables, the built-in composite defaults and the wall clock.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Data == nil {
		d.Data = travel.Default()
	}
	if d.Defaults.HeightFraction == 0 {
		d.Defaults = config.Default().Composite
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	compositor := producer.NewCompositor(d.Runner)
	return &Server{
		logger:     d.Logger,
		data:       d.Data,
		compositor: compositor,
		photos:     producer.NewChain(d.Logger, d.AI, compositor),
		aiEnabled:  d.AI != nil,
		search:     d.Search,
		weather:    d.Weather,
		gemini:     d.Gemini,
		defaults:   d.Defaults,
		origin:     d.AllowedOrigin,
		maxBody:    d.MaxBodyBytes,
		version:    d.Version,
		now:        d.Now,
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(cors(s.origin))
	r.Use(limitBody(s.maxBody))

	r.Get("/healthz", s.handleHealth)
	r.Get("/landmarks", s.handleLandmarks)
	r.Get("/search-location-image", s.handleSearchLocationImage)
	r.Post("/generate-travel-photo", s.handleGenerateTravelPhoto)
	r.Post("/composite", s.handleComposite)

	r.Get("/get-flight-prices", s.handleFlightPrices)
	r.Get("/get-hotel-prices", s.handleHotelPrices)
	r.Get("/get-live-events", s.handleLiveEvents)
	r.Get("/get-weather", s.handleWeather)
	r.Get("/trip-overview", s.handleTripOverview)

	r.Post("/generate-ai-itinerary", s.handleItinerary)
	r.Post("/generate-weather-scene", s.handleWeatherScene)

	return r
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then drains
// in-flight requests for up to the write timeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.Server) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	grace := cfg.WriteTimeout
	if grace <= 0 {
		grace = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"integrations": map[string]bool{
			"ai":      s.aiEnabled,
			"serpapi": s.search.Configured(),
			"gemini":  s.gemini.Configured(),
		},
	})
}
