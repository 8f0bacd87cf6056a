// Package integrations provides HTTP clients for the upstream APIs the
// travel backend depends on.
//
// Each upstream has its own subpackage:
//
//   - [serpapi]: Google image, flight, hotel and event search
//   - [replicate]: hosted background-removal and background-swap models
//   - [gemini]: itinerary text and weather-scene images
//   - [openmeteo]: geocoding and current weather
//
// # Client Pattern
//
// HTTP clients embed the shared [Client], which adds response caching,
// retry with backoff for transport failures and 5xx responses, default
// headers and [observability.HTTPHooks] events:
//
//	c := serpapi.NewClient(apiKey, store, 6*time.Hour)
//	url, err := c.LandmarkImage(ctx, "Kyoto")
//
// Clients built without credentials return [ErrNotConfigured] so callers
// can fall back to static tables.
//
// [serpapi]: github.com/draddo11/Holiday/pkg/integrations/serpapi
// [replicate]: github.com/draddo11/Holiday/pkg/integrations/replicate
// [gemini]: github.com/draddo11/Holiday/pkg/integrations/gemini
// [openmeteo]: github.com/draddo11/Holiday/pkg/integrations/openmeteo
// [observability.HTTPHooks]: github.com/draddo11/Holiday/pkg/observability.HTTPHooks
package integrations
