package serpapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/integrations"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// ImageResult is one Google Images hit.
type ImageResult struct {
	Title     string `json:"title"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Source    string `json:"source"`
}

// FlightQuote summarizes Google Flights results for one route.
type FlightQuote struct {
	Lowest       int    `json:"lowest"`
	TypicalLow   int    `json:"typical_low"`
	TypicalHigh  int    `json:"typical_high"`
	Currency     string `json:"currency"`
	OffersCount  int    `json:"offers_count"`
	DepartureID  string `json:"departure_id"`
	ArrivalID    string `json:"arrival_id"`
	OutboundDate string `json:"outbound_date"`
}

// Hotel is one Google Hotels property.
type Hotel struct {
	Name         string  `json:"name"`
	RatePerNight float64 `json:"rate_per_night"`
	HotelClass   int     `json:"hotel_class"`
	Rating       float64 `json:"rating"`
}

// Event is one Google Events listing.
type Event struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Client queries SerpAPI. All methods are safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	apiKey  string
}

// NewClient creates a client. An empty apiKey yields a client whose calls
// fail with [integrations.ErrNotConfigured].
func NewClient(backend cache.Cache, apiKey string, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "serpapi:", cacheTTL, nil),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// SetBaseURL points the client at another endpoint, such as a test server.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// Images searches Google Images. Results without an original URL are
// dropped; an empty result is [integrations.ErrNotFound].
func (c *Client) Images(ctx context.Context, query string, refresh bool) ([]ImageResult, error) {
	query = integrations.NormalizeQuery(query)
	params := url.Values{"engine": {"google_images"}, "q": {query}, "ijn": {"0"}}

	var out []ImageResult
	err := c.search(ctx, params, refresh, &out, func(resp *apiResponse) error {
		for _, r := range resp.ImagesResults {
			if r.Original != "" {
				out = append(out, ImageResult{Title: r.Title, Original: r.Original, Thumbnail: r.Thumbnail, Source: r.Source})
			}
		}
		if len(out) == 0 {
			return fmt.Errorf("%w: no images for %q", integrations.ErrNotFound, query)
		}
		return nil
	})
	return out, err
}

// Flights returns a round-trip economy quote. Dates are YYYY-MM-DD.
func (c *Client) Flights(ctx context.Context, departureID, arrivalID, outbound, inbound string, refresh bool) (*FlightQuote, error) {
	params := url.Values{
		"engine":        {"google_flights"},
		"departure_id":  {departureID},
		"arrival_id":    {arrivalID},
		"outbound_date": {outbound},
		"return_date":   {inbound},
		"currency":      {"USD"},
		"hl":            {"en"},
	}

	var q FlightQuote
	err := c.search(ctx, params, refresh, &q, func(resp *apiResponse) error {
		var prices []int
		for _, f := range append(resp.BestFlights, resp.OtherFlights...) {
			if f.Price > 0 {
				prices = append(prices, f.Price)
			}
		}
		lowest := resp.PriceInsights.LowestPrice
		if len(prices) > 0 {
			sort.Ints(prices)
			if lowest == 0 || prices[0] < lowest {
				lowest = prices[0]
			}
		}
		if lowest == 0 {
			return fmt.Errorf("%w: no fares %s-%s", integrations.ErrNotFound, departureID, arrivalID)
		}
		q = FlightQuote{
			Lowest:       lowest,
			Currency:     "USD",
			OffersCount:  len(prices),
			DepartureID:  departureID,
			ArrivalID:    arrivalID,
			OutboundDate: outbound,
		}
		if r := resp.PriceInsights.TypicalPriceRange; len(r) == 2 {
			q.TypicalLow, q.TypicalHigh = r[0], r[1]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Hotels lists properties with a nightly rate. Dates are YYYY-MM-DD.
func (c *Client) Hotels(ctx context.Context, query, checkIn, checkOut string, refresh bool) ([]Hotel, error) {
	query = integrations.NormalizeQuery(query)
	params := url.Values{
		"engine":         {"google_hotels"},
		"q":              {query},
		"check_in_date":  {checkIn},
		"check_out_date": {checkOut},
		"currency":       {"USD"},
		"hl":             {"en"},
	}

	var out []Hotel
	err := c.search(ctx, params, refresh, &out, func(resp *apiResponse) error {
		for _, p := range resp.Properties {
			if rate := p.RatePerNight.ExtractedLowest; rate > 0 {
				out = append(out, Hotel{Name: p.Name, RatePerNight: rate, HotelClass: p.ExtractedHotelClass, Rating: p.OverallRating})
			}
		}
		if len(out) == 0 {
			return fmt.Errorf("%w: no hotels for %q", integrations.ErrNotFound, query)
		}
		return nil
	})
	return out, err
}

// Events lists upcoming events in a destination.
func (c *Client) Events(ctx context.Context, destination string, refresh bool) ([]Event, error) {
	destination = integrations.NormalizeQuery(destination)
	params := url.Values{"engine": {"google_events"}, "q": {"Events in " + destination}, "hl": {"en"}}

	var out []Event
	err := c.search(ctx, params, refresh, &out, func(resp *apiResponse) error {
		for _, e := range resp.EventsResults {
			if e.Title == "" {
				continue
			}
			date := e.Date.When
			if date == "" {
				date = e.Date.StartDate
			}
			out = append(out, Event{
				Title:       e.Title,
				Date:        date,
				Venue:       e.Venue.Name,
				Address:     strings.Join(e.Address, ", "),
				Description: e.Description,
				Link:        e.Link,
			})
		}
		if len(out) == 0 {
			return fmt.Errorf("%w: no events for %q", integrations.ErrNotFound, destination)
		}
		return nil
	})
	return out, err
}

// search runs one cached query. extract turns the raw response into the
// value being cached.
func (c *Client) search(ctx context.Context, params url.Values, refresh bool, v any, extract func(*apiResponse) error) error {
	if !c.Configured() {
		return fmt.Errorf("%w: serpapi key missing", integrations.ErrNotConfigured)
	}
	key := params.Encode()
	return c.Cached(ctx, key, refresh, v, func() error {
		q := url.Values{}
		for k, vs := range params {
			q[k] = vs
		}
		q.Set("api_key", c.apiKey)

		var resp apiResponse
		if err := c.Get(ctx, c.baseURL+"?"+q.Encode(), &resp); err != nil {
			return err
		}
		if resp.Error != "" {
			if strings.Contains(strings.ToLower(resp.Error), "hasn't returned any results") {
				return fmt.Errorf("%w: %s", integrations.ErrNotFound, resp.Error)
			}
			return fmt.Errorf("%w: serpapi: %s", integrations.ErrNetwork, resp.Error)
		}
		return extract(&resp)
	})
}

type apiResponse struct {
	Error string `json:"error"`

	ImagesResults []struct {
		Title     string `json:"title"`
		Original  string `json:"original"`
		Thumbnail string `json:"thumbnail"`
		Source    string `json:"source"`
	} `json:"images_results"`

	BestFlights   []apiFlight `json:"best_flights"`
	OtherFlights  []apiFlight `json:"other_flights"`
	PriceInsights struct {
		LowestPrice       int   `json:"lowest_price"`
		TypicalPriceRange []int `json:"typical_price_range"`
	} `json:"price_insights"`

	Properties []struct {
		Name                string  `json:"name"`
		ExtractedHotelClass int     `json:"extracted_hotel_class"`
		OverallRating       float64 `json:"overall_rating"`
		RatePerNight        struct {
			ExtractedLowest float64 `json:"extracted_lowest"`
		} `json:"rate_per_night"`
	} `json:"properties"`

	EventsResults []struct {
		Title string `json:"title"`
		Date  struct {
			StartDate string `json:"start_date"`
			When      string `json:"when"`
		} `json:"date"`
		Address     []string `json:"address"`
		Description string   `json:"description"`
		Link        string   `json:"link"`
		Venue       struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"events_results"`
}

type apiFlight struct {
	Price int `json:"price"`
}
