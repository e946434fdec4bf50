package scheduler

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current time to the loop and waits for the next due event.
type Clock interface {
	Now() time.Time
	// WaitUntil blocks until t has been reached. It returns early with a nil
	// error when wake fires, and with ctx.Err() when ctx is done.
	WaitUntil(ctx context.Context, t time.Time, wake <-chan struct{}) error
}

// WallClock follows real time.
type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }

func (WallClock) WaitUntil(ctx context.Context, t time.Time, wake <-chan struct{}) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// VirtualClock jumps straight to the next event time, so a run takes no real
// time and is fully deterministic.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *VirtualClock) WaitUntil(ctx context.Context, t time.Time, _ <-chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.now) {
		c.now = t
	}
	return nil
}

// Advance moves the clock forward by d.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
