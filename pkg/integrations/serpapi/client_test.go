package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/integrations"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	mem := cache.NewMemoryCache(time.Hour, time.Minute)
	t.Cleanup(func() { mem.Close() })
	c := NewClient(mem, "key", time.Hour)
	c.SetHTTPClient(srv.Client())
	c.SetBaseURL(srv.URL)
	return c
}

func TestImages(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Get("engine") != "google_images" || q.Get("api_key") != "key" {
			t.Errorf("query = %v", q)
		}
		if q.Get("q") != "Eiffel Tower landmark" {
			t.Errorf("q = %q", q.Get("q"))
		}
		w.Write([]byte(`{"images_results":[{"title":"no url"},{"title":"Tower","original":"https://img/1.jpg"}]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	for i := 0; i < 2; i++ {
		imgs, err := c.Images(context.Background(), "  Eiffel   Tower landmark ", false)
		if err != nil {
			t.Fatalf("Images() error: %v", err)
		}
		if len(imgs) != 1 || imgs[0].Original != "https://img/1.jpg" {
			t.Errorf("Images() = %+v", imgs)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hit %d times, want 1 (second call cached)", hits.Load())
	}
}

func TestImagesNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Google hasn't returned any results for this query."}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv).Images(context.Background(), "zzzz", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestFlights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("departure_id") != "JFK" || q.Get("arrival_id") != "CDG" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{
			"best_flights":[{"price":720},{"price":655}],
			"other_flights":[{"price":0},{"price":810}],
			"price_insights":{"lowest_price":690,"typical_price_range":[600,900]}
		}`))
	}))
	defer srv.Close()

	q, err := testClient(t, srv).Flights(context.Background(), "JFK", "CDG", "2026-11-01", "2026-11-08", false)
	if err != nil {
		t.Fatal(err)
	}
	if q.Lowest != 655 || q.OffersCount != 3 || q.TypicalLow != 600 || q.TypicalHigh != 900 {
		t.Errorf("Flights() = %+v", q)
	}
}

func TestHotels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties":[
			{"name":"A","extracted_hotel_class":3,"rate_per_night":{"extracted_lowest":120}},
			{"name":"B","rate_per_night":{}},
			{"name":"C","extracted_hotel_class":5,"rate_per_night":{"extracted_lowest":480.5}}
		]}`))
	}))
	defer srv.Close()

	hotels, err := testClient(t, srv).Hotels(context.Background(), "Paris", "2026-11-01", "2026-11-02", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(hotels) != 2 || hotels[1].RatePerNight != 480.5 || hotels[1].HotelClass != 5 {
		t.Errorf("Hotels() = %+v", hotels)
	}
}

func TestEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Events in Tokyo" {
			t.Errorf("q = %q", got)
		}
		w.Write([]byte(`{"events_results":[
			{"title":"Jazz Night","date":{"start_date":"Nov 3","when":"Mon, Nov 3, 8 PM"},"address":["Blue Note","Minato"],"venue":{"name":"Blue Note Tokyo"}},
			{"title":""}
		]}`))
	}))
	defer srv.Close()

	events, err := testClient(t, srv).Events(context.Background(), "Tokyo", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("Events() = %+v", events)
	}
	e := events[0]
	if e.Date != "Mon, Nov 3, 8 PM" || e.Venue != "Blue Note Tokyo" || e.Address != "Blue Note, Minato" {
		t.Errorf("event = %+v", e)
	}
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(nil, "", time.Hour)
	if c.Configured() {
		t.Error("Configured() = true without key")
	}
	if _, err := c.Images(context.Background(), "x", false); !errors.Is(err, integrations.ErrNotConfigured) {
		t.Errorf("error = %v", err)
	}
}
