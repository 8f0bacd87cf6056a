// Package openmeteo provides a client for the Open-Meteo geocoding and
// forecast APIs. Open-Meteo needs no API key.
package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/integrations"
)

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Location is a geocoded place.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Conditions are the current weather at a location.
type Conditions struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	WindSpeed   float64 `json:"wind_speed"`  // km/h
	WeatherCode int     `json:"weather_code"`
	IsDay       bool    `json:"is_day"`
}

// Condition returns a short description of the WMO weather code.
func (c Conditions) Condition() string { return Describe(c.WeatherCode) }

// Client queries Open-Meteo. All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	geocodeURL  string
	forecastURL string
}

// NewClient creates a client. Geocoding results are cached for cacheTTL.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:      integrations.NewClient(backend, "openmeteo:", cacheTTL, nil),
		geocodeURL:  defaultGeocodeURL,
		forecastURL: defaultForecastURL,
	}
}

// SetBaseURLs points the client at other endpoints, such as a test server.
func (c *Client) SetBaseURLs(geocode, forecast string) {
	c.geocodeURL, c.forecastURL = geocode, forecast
}

// Geocode resolves a place name to coordinates.
func (c *Client) Geocode(ctx context.Context, name string, refresh bool) (*Location, error) {
	name = integrations.NormalizeQuery(name)
	var loc Location
	err := c.Cached(ctx, "geo:"+name, refresh, &loc, func() error {
		var resp struct {
			Results []Location `json:"results"`
		}
		u := c.geocodeURL + "?" + url.Values{"name": {name}, "count": {"1"}, "language": {"en"}}.Encode()
		if err := c.Get(ctx, u, &resp); err != nil {
			return err
		}
		if len(resp.Results) == 0 {
			return fmt.Errorf("%w: no location named %q", integrations.ErrNotFound, name)
		}
		loc = resp.Results[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Current returns the current conditions at a coordinate. It is not
// cached; weather is only useful fresh.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	q := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', 4, 64)},
		"current":   {"temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code,is_day"},
	}
	var resp struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
			IsDay       int     `json:"is_day"`
		} `json:"current"`
	}
	if err := c.Get(ctx, c.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	cur := resp.Current
	return &Conditions{
		Temperature: cur.Temperature,
		Humidity:    cur.Humidity,
		WindSpeed:   cur.WindSpeed,
		WeatherCode: cur.WeatherCode,
		IsDay:       cur.IsDay == 1,
	}, nil
}

// Weather geocodes name and returns its current conditions.
func (c *Client) Weather(ctx context.Context, name string) (*Location, *Conditions, error) {
	loc, err := c.Geocode(ctx, name, false)
	if err != nil {
		return nil, nil, err
	}
	cond, err := c.Current(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return nil, nil, err
	}
	return loc, cond, nil
}

// Describe maps a WMO weather interpretation code to a condition name.
func Describe(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 2:
		return "Partly Cloudy"
	case code == 3:
		return "Cloudy"
	case code == 45 || code == 48:
		return "Foggy"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67, code >= 80 && code <= 82:
		return "Rainy"
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return "Snowy"
	case code >= 95:
		return "Stormy"
	}
	return "Cloudy"
}
