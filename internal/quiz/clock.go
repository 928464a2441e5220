package quiz

import (
	"sync/atomic"
	"time"
)

// DefaultTimeLimit is the session time limit when none is configured.
const DefaultTimeLimit = 3600 * time.Second

// Clock is a one-shot countdown. It ticks once per resolution step and calls
// onExpire exactly once when it reaches zero, unless Stop wins first.
type Clock struct {
	resolution time.Duration
	left       atomic.Int64 // ticks remaining
	stopped    atomic.Bool
	halt       chan struct{}
	onExpire   func()
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithResolution overrides the one-second tick.
func WithResolution(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.resolution = d
		}
	}
}

// StartClock starts a countdown of limit and returns immediately.
func StartClock(limit time.Duration, onExpire func(), opts ...ClockOption) *Clock {
	c := &Clock{
		resolution: time.Second,
		halt:       make(chan struct{}),
		onExpire:   onExpire,
	}
	for _, o := range opts {
		o(c)
	}

	ticks := int64((limit + c.resolution - 1) / c.resolution)
	c.left.Store(ticks)

	go c.run()
	return c
}

func (c *Clock) run() {
	if c.left.Load() <= 0 {
		c.expire()
		return
	}

	ticker := time.NewTicker(c.resolution)
	defer ticker.Stop()

	for {
		select {
		case <-c.halt:
			return
		case <-ticker.C:
			if c.left.Add(-1) <= 0 {
				c.expire()
				return
			}
		}
	}
}

func (c *Clock) expire() {
	if !c.stopped.CompareAndSwap(false, true) {
		return
	}
	close(c.halt)
	if c.onExpire != nil {
		c.onExpire()
	}
}

// Stop cancels the countdown. It reports whether this call stopped a running
// clock; later calls and calls after expiry return false.
func (c *Clock) Stop() bool {
	if !c.stopped.CompareAndSwap(false, true) {
		return false
	}
	close(c.halt)
	return true
}

// Remaining returns the time left, never negative.
func (c *Clock) Remaining() time.Duration {
	left := c.left.Load()
	if left < 0 {
		left = 0
	}
	return time.Duration(left) * c.resolution
}
