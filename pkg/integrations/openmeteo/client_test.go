package openmeteo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/draddo11/Holiday/pkg/integrations"
)

func TestWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geo":
			if r.URL.Query().Get("name") == "Atlantis" {
				w.Write([]byte(`{}`))
				return
			}
			w.Write([]byte(`{"results":[{"name":"Paris","country":"France","latitude":48.8534,"longitude":2.3488}]}`))
		case "/forecast":
			if got := r.URL.Query().Get("latitude"); got != "48.8534" {
				t.Errorf("latitude = %q", got)
			}
			w.Write([]byte(`{"current":{"temperature_2m":14.2,"relative_humidity_2m":71,"wind_speed_10m":11.5,"weather_code":61,"is_day":1}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(nil, time.Hour)
	c.SetHTTPClient(srv.Client())
	c.SetBaseURLs(srv.URL+"/geo", srv.URL+"/forecast")

	loc, cond, err := c.Weather(context.Background(), "Paris")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Country != "France" {
		t.Errorf("location = %+v", loc)
	}
	if cond.Temperature != 14.2 || cond.Condition() != "Rainy" || !cond.IsDay {
		t.Errorf("conditions = %+v", cond)
	}

	if _, _, err := c.Weather(context.Background(), "Atlantis"); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("unknown place: error = %v", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := map[int]string{
		0: "Clear", 2: "Partly Cloudy", 3: "Cloudy", 45: "Foggy", 53: "Drizzle",
		63: "Rainy", 81: "Rainy", 73: "Snowy", 86: "Snowy", 95: "Stormy", 99: "Stormy",
	}
	for code, want := range tests {
		if got := Describe(code); got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}
}
