// Package travel holds the trip-planning domain: the static fallback tables,
// season detection, price estimates, event templates, itinerary prompts and
// the weather-scene prompt and postcard renderer.
//
// Every lookup in this package is deterministic. Live data comes from the
// integration clients; the functions here answer when those clients are
// unconfigured or fail, so the API never returns an empty page.
//
// # Fallback tables
//
// The tables live in data/fallback.toml, embedded into the binary and decoded
// once on first use:
//
//	d := travel.Default()
//	lm, ok := d.Landmark("eiffel-tower")
//
// Destination names are normalized before lookup with [Normalize], so
// "Paris, France" and " PARIS " hit the same row.
package travel

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

//go:embed data/fallback.toml
var fallbackTOML []byte

// Landmark is a preset background photo.
type Landmark struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Destination string `toml:"destination" json:"destination"`
	ImageURL    string `toml:"image_url" json:"imageUrl"`
}

// Weather is a canned reading used when live weather is unavailable.
type Weather struct {
	Temperature float64 `toml:"temperature"`
	Condition   string  `toml:"condition"`
	Humidity    int     `toml:"humidity"`
	Wind        float64 `toml:"wind"`
}

// EventTemplate is a seasonal event. Name may contain a "{destination}"
// placeholder.
type EventTemplate struct {
	Season      string `toml:"season"`
	Name        string `toml:"name"`
	Venue       string `toml:"venue"`
	Type        string `toml:"type"`
	Description string `toml:"description"`
}

// Guide is the hand-written summary of a destination used to build
// template itineraries.
type Guide struct {
	Name          string   `toml:"name"`
	Attractions   []string `toml:"attractions"`
	Activities    []string `toml:"activities"`
	Food          []string `toml:"food"`
	Neighborhoods []string `toml:"neighborhoods"`
	Tips          []string `toml:"tips"`
}

// Data is the decoded fallback table set.
type Data struct {
	Landmarks []Landmark         `toml:"landmarks"`
	Airports  map[string]string  `toml:"airports"`
	Flights   map[string]float64 `toml:"flights"`
	Hotels    map[string]float64 `toml:"hotels"`
	Weather   map[string]Weather `toml:"weather"`
	Events    []EventTemplate    `toml:"events"`
	Guides    map[string]Guide   `toml:"guides"`
}

var (
	defaultData    *Data
	defaultErr     error
	defaultDataOne sync.Once
)

// Default returns the embedded tables. It panics if the embedded file does
// not decode, which only happens when the binary was built from a broken
// data file.
func Default() *Data {
	defaultDataOne.Do(func() {
		defaultData, defaultErr = Load(fallbackTOML)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultData
}

// Load decodes a fallback table file and checks landmark ids are unique.
func Load(b []byte) (*Data, error) {
	var d Data
	if _, err := toml.Decode(string(b), &d); err != nil {
		return nil, fmt.Errorf("decode fallback tables: %w", err)
	}
	seen := make(map[string]bool, len(d.Landmarks))
	for _, lm := range d.Landmarks {
		if lm.ID == "" || lm.ImageURL == "" {
			return nil, fmt.Errorf("landmark %q: id and image_url are required", lm.Name)
		}
		if seen[lm.ID] {
			return nil, fmt.Errorf("duplicate landmark id %q", lm.ID)
		}
		seen[lm.ID] = true
	}
	d.Airports = normalizeKeys(d.Airports)
	d.Flights = normalizeKeys(d.Flights)
	d.Hotels = normalizeKeys(d.Hotels)
	d.Weather = normalizeKeys(d.Weather)
	d.Guides = normalizeKeys(d.Guides)
	return &d, nil
}

func normalizeKeys[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[Normalize(k)] = v
	}
	return out
}

// Normalize lowercases and trims a destination and keeps only its first
// comma-separated component: "Paris, France" becomes "paris".
func Normalize(destination string) string {
	s := strings.ToLower(strings.TrimSpace(destination))
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Join(strings.Fields(s), " ")
}

// DisplayName title-cases the normalized destination.
func DisplayName(destination string) string {
	words := strings.Fields(Normalize(destination))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Landmark looks up a landmark by id.
func (d *Data) Landmark(id string) (Landmark, bool) {
	for _, lm := range d.Landmarks {
		if lm.ID == id {
			return lm, true
		}
	}
	return Landmark{}, false
}

// LandmarksFor returns the landmarks at a destination, in table order.
func (d *Data) LandmarksFor(destination string) []Landmark {
	key := Normalize(destination)
	var out []Landmark
	for _, lm := range d.Landmarks {
		if Normalize(lm.Destination) == key {
			out = append(out, lm)
		}
	}
	return out
}

// Airport returns the IATA code for a destination.
func (d *Data) Airport(destination string) (string, bool) {
	code, ok := d.Airports[Normalize(destination)]
	return code, ok
}

// WeatherFor returns the canned weather for a destination. Unknown
// destinations get a mild partly cloudy day.
func (d *Data) WeatherFor(destination string) (Weather, bool) {
	if w, ok := d.Weather[Normalize(destination)]; ok {
		return w, true
	}
	return Weather{Temperature: 20, Condition: "Partly Cloudy", Humidity: 65, Wind: 12}, false
}

// Guide returns the destination guide, or a generic one built from the
// display name.
func (d *Data) Guide(destination string) (Guide, bool) {
	if g, ok := d.Guides[Normalize(destination)]; ok {
		return g, true
	}
	name := DisplayName(destination)
	return Guide{
		Name:          name,
		Attractions:   []string{name + " Old Town", name + " City Museum", "Main Square", "Scenic Viewpoint"},
		Activities:    []string{"Guided walking tour", "Local food tour", "Day trip to the countryside"},
		Food:          []string{"Local street food", "Traditional restaurant dinner", "Market breakfast"},
		Neighborhoods: []string{"City Centre", "Old Town"},
		Tips:          []string{"Carry some local cash", "Book popular sights in advance", "Use public transport passes"},
	}, false
}

// Destinations lists every destination that has at least one table entry,
// sorted.
func (d *Data) Destinations() []string {
	set := make(map[string]bool)
	for k := range d.Flights {
		set[k] = true
	}
	for k := range d.Guides {
		set[k] = true
	}
	for _, lm := range d.Landmarks {
		set[Normalize(lm.Destination)] = true
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
