package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock advances only when the throttle sleeps.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	sleepE error
}

func (c *fakeClock) install(t *Throttle) {
	t.now = func() time.Time { return c.now }
	t.sleep = func(_ context.Context, d time.Duration) error {
		if c.sleepE != nil {
			return c.sleepE
		}
		c.slept = append(c.slept, d)
		c.now = c.now.Add(d)
		return nil
	}
}

func TestThrottleSpacing(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	th := NewThrottle(2 * time.Second)
	clock.install(th)
	ctx := context.Background()

	if err := th.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if len(clock.slept) != 0 {
		t.Fatalf("first call slept %v", clock.slept)
	}

	clock.now = clock.now.Add(500 * time.Millisecond)
	if err := th.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if len(clock.slept) != 1 || clock.slept[0] != 1500*time.Millisecond {
		t.Fatalf("slept %v, want [1.5s]", clock.slept)
	}

	clock.now = clock.now.Add(3 * time.Second)
	if err := th.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if len(clock.slept) != 1 {
		t.Errorf("call after the interval should not sleep: %v", clock.slept)
	}
}

func TestThrottleCancelled(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	th := NewThrottle(time.Minute)
	clock.install(th)

	if err := th.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	clock.sleepE = context.Canceled
	if err := th.Wait(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestThrottleDisabled(t *testing.T) {
	var nilThrottle *Throttle
	if err := nilThrottle.Wait(context.Background()); err != nil {
		t.Errorf("nil throttle: %v", err)
	}
	if nilThrottle.Interval() != 0 {
		t.Error("nil throttle interval should be zero")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewThrottle(0).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("zero interval with cancelled ctx: %v", err)
	}
}

func TestThrottleRealTimer(t *testing.T) {
	th := NewThrottle(30 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := th.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("three calls took %v, want at least 60ms", elapsed)
	}
}
