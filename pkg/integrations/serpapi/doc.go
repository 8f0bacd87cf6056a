// Package serpapi provides a client for the SerpAPI search API.
//
// # Overview
//
// SerpAPI (https://serpapi.com) wraps Google search verticals behind one
// JSON endpoint. travelsnap uses four engines:
//
//   - Google Images, to find a background photo for a free-text location
//   - Google Flights, for economy fares between two airports
//   - Google Hotels, for nightly rates in a destination
//   - Google Events, for what is on in a destination
//
// # Usage
//
//	client := serpapi.NewClient(cache, apiKey, time.Hour)
//	images, err := client.Images(ctx, "Eiffel Tower landmark", false)
//	fmt.Println(images[0].Original)
//
// # Caching
//
// Responses are cached under the query parameters (never the API key).
// Pass refresh=true to bypass the cache.
package serpapi
