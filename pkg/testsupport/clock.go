package testsupport

import (
	"sync"
	"time"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// FakeClock schedules callbacks against a manually advanced time.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*FakeTimer
}

// FakeTimer is a callback registered with FakeClock.
type FakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

// NewFakeClock starts the clock at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers fn to run once d has elapsed.
func (c *FakeClock) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &FakeTimer{clock: c, deadline: c.now.Add(d), fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

var _ interfaces.Clock = (*FakeClock)(nil)

// Stop cancels the timer. It reports false when the timer already fired or
// was stopped.
func (t *FakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Fire runs the callback regardless of state, simulating a timer that
// elapsed concurrently with Stop.
func (t *FakeTimer) Fire() {
	t.fn()
}

// Advance moves time forward, running due callbacks in deadline order.
// Callbacks may schedule new timers; those fire too when they fall due
// within the window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		var next *FakeTimer
		for _, timer := range c.timers {
			if timer.stopped || timer.fired || timer.deadline.After(target) {
				continue
			}
			if next == nil || timer.deadline.Before(next.deadline) {
				next = timer
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		c.now = next.deadline
		c.mu.Unlock()
		next.fn()
	}
}

// Pending counts timers that have neither fired nor been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, timer := range c.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

// Timers returns every timer ever scheduled, oldest first.
func (c *FakeClock) Timers() []*FakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*FakeTimer, len(c.timers))
	copy(out, c.timers)
	return out
}
