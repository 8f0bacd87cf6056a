package httputil

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between calls to a rate-limited
// API. It holds a single last-call timestamp; callers that arrive early
// wait for the remainder of the interval. The zero value never waits.
//
// A Throttle is shared by reference between every client that talks to
// the same upstream account.
type Throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle returns a Throttle allowing one call per interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Interval returns the configured minimum spacing between calls.
func (t *Throttle) Interval() time.Duration {
	if t == nil {
		return 0
	}
	return t.interval
}

// Wait blocks until at least Interval has passed since the previous call
// recorded by Wait, then records the current call. The lock is held while
// sleeping so concurrent callers are spaced one interval apart.
// A nil Throttle returns immediately.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	if !t.last.IsZero() {
		if wait := t.interval - now.Sub(t.last); wait > 0 {
			if err := t.pause(ctx, wait); err != nil {
				return err
			}
			now = t.clock()
		}
	}
	t.last = now
	return nil
}

func (t *Throttle) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *Throttle) pause(ctx context.Context, d time.Duration) error {
	if t.sleep != nil {
		return t.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
