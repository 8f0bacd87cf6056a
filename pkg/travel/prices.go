package travel

import (
	"hash/fnv"
	"math"
	"time"
)

// Sources reported alongside every answer so clients can tell live data
// from canned data.
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
	SourceAI       = "ai"
)

// DefaultOrigin is assumed when a request names no origin.
const DefaultOrigin = "New York"

// Fare and room-class multipliers over the base price.
const (
	PremiumMultiplier  = 1.8
	BusinessMultiplier = 3.5
	StandardMultiplier = 2.0
	LuxuryMultiplier   = 4.5
)

// FlightPrices is a round-trip fare summary per cabin class.
type FlightPrices struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Economy     float64 `json:"economy"`
	Premium     float64 `json:"premium"`
	Business    float64 `json:"business"`
	Currency    string  `json:"currency"`
	LastUpdated string  `json:"lastUpdated"`
	Source      string  `json:"source"`
}

// HotelPrices is a nightly rate summary per room class.
type HotelPrices struct {
	Destination string  `json:"destination"`
	Budget      float64 `json:"budget"`
	Standard    float64 `json:"standard"`
	Luxury      float64 `json:"luxury"`
	Currency    string  `json:"currency"`
	Source      string  `json:"source"`
}

// NewFlightPrices derives the premium and business fares from an economy
// fare.
func NewFlightPrices(origin, destination string, economy float64, source string, now time.Time) *FlightPrices {
	return &FlightPrices{
		Origin:      origin,
		Destination: destination,
		Economy:     math.Round(economy),
		Premium:     math.Round(economy * PremiumMultiplier),
		Business:    math.Round(economy * BusinessMultiplier),
		Currency:    "USD",
		LastUpdated: now.UTC().Format(time.RFC3339),
		Source:      source,
	}
}

// NewHotelPrices derives the standard and luxury rates from a budget rate.
func NewHotelPrices(destination string, budget float64, source string) *HotelPrices {
	return &HotelPrices{
		Destination: destination,
		Budget:      math.Round(budget),
		Standard:    math.Round(budget * StandardMultiplier),
		Luxury:      math.Round(budget * LuxuryMultiplier),
		Currency:    "USD",
		Source:      source,
	}
}

// FlightFallback returns table fares for a destination, or a stable
// estimate derived from the destination name.
func (d *Data) FlightFallback(origin, destination string, now time.Time) *FlightPrices {
	if origin == "" {
		origin = DefaultOrigin
	}
	base, ok := d.Flights[Normalize(destination)]
	if !ok {
		base = estimate(destination, 450, 1100)
	}
	return NewFlightPrices(origin, destination, base, SourceFallback, now)
}

// HotelFallback returns table rates for a destination, or a stable
// estimate derived from the destination name.
func (d *Data) HotelFallback(destination string) *HotelPrices {
	base, ok := d.Hotels[Normalize(destination)]
	if !ok {
		base = estimate(destination, 70, 130)
	}
	return NewHotelPrices(destination, base, SourceFallback)
}

// estimate maps the normalized name onto [lo, lo+span) in whole dollars.
func estimate(destination string, lo, span uint32) float64 {
	h := fnv.New32a()
	h.Write([]byte(Normalize(destination)))
	return float64(lo + h.Sum32()%span)
}
