package hanami

import (
	"context"
	"time"
)

// Clock reports monotonic timestamps as durations since an origin.
type Clock interface {
	Now() time.Duration
}

// ManualClock is a Clock advanced by hand. Used by tests and scenario scripts.
type ManualClock struct {
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration { return c.now }

// Advance moves the clock forward by d and returns the new time. Negative d
// is ignored.
func (c *ManualClock) Advance(d time.Duration) time.Duration {
	if d > 0 {
		c.now += d
	}
	return c.now
}

// WallClock measures time elapsed since it was created.
type WallClock struct {
	origin time.Time
}

// NewWallClock starts a clock at the current instant.
func NewWallClock() *WallClock { return &WallClock{origin: time.Now()} }

// Now returns the time since the clock was created.
func (c *WallClock) Now() time.Duration { return time.Since(c.origin) }

// TickerPump calls a function at a fixed rate, passing the clock's timestamp.
// Calls are serialized on the goroutine running Run.
type TickerPump struct {
	FPS   int
	Clock Clock
}

// Run ticks until ctx is done and then returns ctx.Err().
func (p TickerPump) Run(ctx context.Context, fn func(now time.Duration)) error {
	fps := p.FPS
	if fps <= 0 {
		fps = 60
	}
	clock := p.Clock
	if clock == nil {
		clock = NewWallClock()
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	fn(clock.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(clock.Now())
		}
	}
}
