package hanami

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManualClock(t *testing.T) {
	var c ManualClock
	if c.Now() != 0 {
		t.Fatalf("zero clock at %v", c.Now())
	}
	if got := c.Advance(16 * time.Millisecond); got != 16*time.Millisecond {
		t.Errorf("Advance = %v", got)
	}
	c.Advance(-time.Second)
	if c.Now() != 16*time.Millisecond {
		t.Errorf("negative advance moved clock to %v", c.Now())
	}
}

func TestWallClockMonotonic(t *testing.T) {
	c := NewWallClock()
	a := c.Now()
	time.Sleep(time.Millisecond)
	if b := c.Now(); b <= a {
		t.Errorf("wall clock went from %v to %v", a, b)
	}
}

func TestTickerPumpStopsOnCancel(t *testing.T) {
	clock := &ManualClock{}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := TickerPump{FPS: 1000, Clock: clock}.Run(ctx, func(time.Duration) {
		calls++
		if calls == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls < 3 {
		t.Errorf("calls = %d, want at least 3", calls)
	}
}
