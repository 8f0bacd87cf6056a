package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/httputil"
)

func ExampleRetry() {
	attempts := 0
	err := httputil.Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts == 1 {
			return cache.Retryable(cache.ErrNetwork)
		}
		return nil
	})
	fmt.Println("attempts:", attempts, "err:", err)
	// Output:
	// attempts: 2 err: <nil>
}

func ExampleThrottle() {
	th := httputil.NewThrottle(10 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	_ = th.Wait(ctx)
	_ = th.Wait(ctx)
	fmt.Println(time.Since(start) >= 10*time.Millisecond)
	// Output:
	// true
}
