// Package pkg provides the core libraries for travelsnap, a travel-photo
// compositing and trip-planning backend.
//
// # Overview
//
// travelsnap places a person photo into a landmark or destination scene and
// answers trip-planning queries. The pkg directory is organized into these
// areas:
//
//  1. [core] - Image domain logic (surfaces, depth cues, layering, placement, finishing)
//  2. [pipeline] - Orchestration (acquire, segment, composite, encode) with caching
//  3. [producer] - Image producer chain (hosted model first, local compositor second)
//  4. [integrations] - External API clients (SerpAPI, Replicate, Gemini, Open-Meteo)
//  5. [travel] - Static destination tables and deterministic fallbacks
//  6. [cache], [httputil], [observability], [errors] - Shared infrastructure
//
// # Architecture
//
// The composite flow:
//
//	foreground + background (data URI, URL or landmark id)
//	         ↓
//	    [acquire] package (decode into surfaces)
//	         ↓
//	    [segment] package (remove the foreground backdrop)
//	         ↓
//	    [core/depth] + [core/layer] + [core/place] (cues, layers, placement)
//	         ↓
//	    [core/composite] + [core/finish] (blend and grade)
//	         ↓
//	    [core/encode] (PNG or JPEG bytes, data URI)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NullCache{}, cache.DefaultKeyer{}, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Foreground:     fgDataURI,
//	    Background:     bgDataURI,
//	    HeightFraction: 0.6,
//	    Anchor:         "bottom",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.DataURI())
//
// Without API keys every external lookup falls back to the tables in
// [travel], so the service works offline.
//
// [core]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core
// [pipeline]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/pipeline
// [producer]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/producer
// [integrations]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/integrations
// [travel]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/travel
// [cache]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/observability
// [errors]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/errors
// [acquire]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/acquire
// [segment]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/segment
// [core/depth]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/depth
// [core/layer]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/layer
// [core/place]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/place
// [core/composite]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/composite
// [core/finish]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/finish
// [core/encode]: https://pkg.go.dev/github.com/draddo11/Holiday/pkg/core/encode
package pkg
