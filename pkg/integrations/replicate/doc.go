// Package replicate provides a client for the Replicate predictions API.
//
// # Overview
//
// Replicate hosts the background-removal model travelsnap calls, both to
// cut the subject out of an upload and to swap its background for a
// landmark in one AI step.
//
// # Usage
//
//	throttle := httputil.NewThrottle(2 * time.Second)
//	client := replicate.NewClient(token, throttle, 60*time.Second)
//
//	pred, err := client.Run(ctx, replicate.BackgroundRemover, map[string]any{
//	    "image":           userImageDataURI,
//	    "background_type": backgroundDataURI,
//	})
//	url, err := pred.OutputURL()
//
// # Rate Limiting
//
// The account is rate limited, so every prediction first waits on the
// shared [httputil.Throttle]. Predictions are created with "Prefer: wait"
// and polled until they reach a terminal status.
package replicate
