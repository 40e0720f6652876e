package viewer

import (
	"context"
	"time"
)

// TickSource calls tick repeatedly on the calling goroutine until ctx is done or the source runs out.
type TickSource interface {
	Run(ctx context.Context, tick func()) error
}

// Interval ticks at a fixed period.
type Interval struct {
	Period time.Duration
}

// Run ticks every Period until ctx is done and then returns nil.
func (iv Interval) Run(ctx context.Context, tick func()) error {
	period := iv.Period
	if period <= 0 {
		period = time.Second / 60
	}
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			tick()
		}
	}
}

// Stepper ticks N times back to back, stopping early if ctx is done. Tests use it to drive Step deterministically.
type Stepper struct {
	N int
	// Before, if set, runs ahead of each tick with the zero-based tick number.
	Before func(i int)
}

// Run performs the ticks and returns ctx.Err() if it stopped early.
func (s Stepper) Run(ctx context.Context, tick func()) error {
	for i := 0; i < s.N; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Before != nil {
			s.Before(i)
		}
		tick()
	}
	return nil
}

// Run drives c from ticks until the source returns, then cancels any load still in flight.
func Run(ctx context.Context, ticks TickSource, c *Context) error {
	defer c.Close()
	return ticks.Run(ctx, c.Step)
}
