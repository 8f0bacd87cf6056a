package api

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/draddo11/Holiday/pkg/travel"
)

// Trip search window: outbound a month out, one week away.
const (
	tripLeadDays   = 30
	tripLengthDays = 7
)

// WeatherReport is returned by /get-weather.
type WeatherReport struct {
	Destination string  `json:"destination"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    float64 `json:"humidity"`
	Wind        float64 `json:"wind"`
	Source      string  `json:"source"`
}

// EventsReport is returned by /get-live-events.
type EventsReport struct {
	Destination string         `json:"destination"`
	Events      []travel.Event `json:"events"`
	Source      string         `json:"source"`
}

// TripOverview bundles every destination lookup.
type TripOverview struct {
	Destination string               `json:"destination"`
	Origin      string               `json:"origin"`
	Season      travel.Season        `json:"season"`
	Flights     *travel.FlightPrices `json:"flights"`
	Hotels      *travel.HotelPrices  `json:"hotels"`
	Events      *EventsReport        `json:"events"`
	Weather     *WeatherReport       `json:"weather"`
}

func (s *Server) handleFlightPrices(w http.ResponseWriter, r *http.Request) {
	dest, err := requireQuery(r, "destination")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	WriteJSONResponse(w, r, http.StatusOK, s.flightPrices(r.Context(), origin, dest))
}

func (s *Server) handleHotelPrices(w http.ResponseWriter, r *http.Request) {
	dest, err := requireQuery(r, "destination")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	WriteJSONResponse(w, r, http.StatusOK, s.hotelPrices(r.Context(), dest))
}

func (s *Server) handleLiveEvents(w http.ResponseWriter, r *http.Request) {
	dest, err := requireQuery(r, "destination")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	WriteJSONResponse(w, r, http.StatusOK, s.events(r.Context(), dest))
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	dest, err := requireQuery(r, "destination")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	WriteJSONResponse(w, r, http.StatusOK, s.weatherReport(r.Context(), dest))
}

func (s *Server) handleTripOverview(w http.ResponseWriter, r *http.Request) {
	dest, err := requireQuery(r, "destination")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	if origin == "" {
		origin = travel.DefaultOrigin
	}

	ov := TripOverview{Destination: dest, Origin: origin, Season: travel.SeasonFor(s.now())}
	// Each lookup falls back on its own, so the group never fails.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error { ov.Flights = s.flightPrices(ctx, origin, dest); return nil })
	g.Go(func() error { ov.Hotels = s.hotelPrices(ctx, dest); return nil })
	g.Go(func() error { ov.Events = s.events(ctx, dest); return nil })
	g.Go(func() error { ov.Weather = s.weatherReport(ctx, dest); return nil })
	_ = g.Wait()

	WriteJSONResponse(w, r, http.StatusOK, ov)
}

// flightPrices asks Google Flights when both airports are known and falls
// back to the fare table otherwise.
func (s *Server) flightPrices(ctx context.Context, origin, dest string) *travel.FlightPrices {
	if origin == "" {
		origin = travel.DefaultOrigin
	}
	now := s.now()
	from, okFrom := s.data.Airport(origin)
	to, okTo := s.data.Airport(dest)
	if s.search.Configured() && okFrom && okTo {
		out := now.AddDate(0, 0, tripLeadDays)
		back := out.AddDate(0, 0, tripLengthDays)
		q, err := s.search.Flights(ctx, from, to, out.Format("2006-01-02"), back.Format("2006-01-02"), false)
		if err == nil && q.Lowest > 0 {
			return travel.NewFlightPrices(origin, dest, float64(q.Lowest), travel.SourceLive, now)
		}
		loggerFrom(ctx).Warn("flight search failed, using fallback", "destination", dest, "err", err)
	}
	return s.data.FlightFallback(origin, dest, now)
}

// hotelPrices uses the cheapest nightly rate from Google Hotels as the
// budget tier.
func (s *Server) hotelPrices(ctx context.Context, dest string) *travel.HotelPrices {
	if s.search.Configured() {
		in := s.now().AddDate(0, 0, tripLeadDays)
		out := in.AddDate(0, 0, tripLengthDays)
		hotels, err := s.search.Hotels(ctx, dest+" hotels", in.Format("2006-01-02"), out.Format("2006-01-02"), false)
		if err == nil {
			var rates []float64
			for _, h := range hotels {
				if h.RatePerNight > 0 {
					rates = append(rates, h.RatePerNight)
				}
			}
			if len(rates) > 0 {
				sort.Float64s(rates)
				return travel.NewHotelPrices(dest, rates[0], travel.SourceLive)
			}
		}
		loggerFrom(ctx).Warn("hotel search failed, using fallback", "destination", dest, "err", err)
	}
	return s.data.HotelFallback(dest)
}

func (s *Server) events(ctx context.Context, dest string) *EventsReport {
	if s.search.Configured() {
		found, err := s.search.Events(ctx, dest, false)
		if err == nil && len(found) > 0 {
			events := make([]travel.Event, 0, len(found))
			for _, e := range found {
				events = append(events, travel.Event{
					Name:        e.Title,
					Venue:       e.Venue,
					Date:        e.Date,
					Description: e.Description,
					Type:        "event",
				})
			}
			return &EventsReport{Destination: dest, Events: events, Source: travel.SourceLive}
		}
		loggerFrom(ctx).Warn("event search failed, using fallback", "destination", dest, "err", err)
	}
	return &EventsReport{Destination: dest, Events: s.data.EventsFallback(dest, s.now()), Source: travel.SourceFallback}
}

func (s *Server) weatherReport(ctx context.Context, dest string) *WeatherReport {
	if s.weather != nil {
		_, cond, err := s.weather.Weather(ctx, dest)
		if err == nil {
			return &WeatherReport{
				Destination: dest,
				Temperature: cond.Temperature,
				Condition:   cond.Condition(),
				Humidity:    cond.Humidity,
				Wind:        cond.WindSpeed,
				Source:      travel.SourceLive,
			}
		}
		loggerFrom(ctx).Warn("weather lookup failed, using fallback", "destination", dest, "err", err)
	}
	wf, _ := s.data.WeatherFor(dest)
	return &WeatherReport{
		Destination: dest,
		Temperature: wf.Temperature,
		Condition:   wf.Condition,
		Humidity:    float64(wf.Humidity),
		Wind:        wf.Wind,
		Source:      travel.SourceFallback,
	}
}
