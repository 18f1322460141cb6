// Package carousel implements the index/autoplay state machine behind the
// hero, testimonial and team carousels.
package carousel

import (
	"sync"
	"time"

	"github.com/goliatone/go-content-sync/internal/locale"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// DefaultInterval is the autoplay period when none is configured.
const DefaultInterval = 5 * time.Second

// Policy decides what happens at the ends of the collection.
type Policy int

const (
	// Wrap cycles from the last item back to the first and vice versa.
	Wrap Policy = iota
	// Clamp stops at the ends; with a window of k visible items the last
	// reachable index is N-k.
	Clamp
)

func (p Policy) String() string {
	if p == Clamp {
		return "clamp"
	}
	return "wrap"
}

// Config describes one carousel.
type Config struct {
	Policy          Policy
	Window          int
	Autoplay        bool
	SuspendOnManual bool
	Interval        time.Duration
}

// State is a snapshot passed to change listeners.
type State struct {
	Index    int
	Count    int
	Autoplay bool
}

// Option customises a Controller.
type Option func(*Controller)

// WithClock swaps the timer source.
func WithClock(clock interfaces.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger overrides the controller logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnChange registers a listener called after every state change.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller owns the index, item count and autoplay timer of one carousel
// instance. It is safe for concurrent use; listeners run outside the lock.
type Controller struct {
	cfg      Config
	clock    interfaces.Clock
	logger   interfaces.Logger
	onChange func(State)

	mu         sync.Mutex
	index      int
	count      int
	autoplay   bool
	closed     bool
	timer      interfaces.Timer
	generation uint64
	stale      uint64
}

// New builds a controller with no items. Autoplay starts once a positive
// count is set.
func New(cfg Config, opts ...Option) *Controller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Window < 1 {
		cfg.Window = 1
	}
	c := &Controller{
		cfg:      cfg,
		clock:    wallClock{},
		logger:   logging.NoOp(),
		autoplay: cfg.Autoplay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Index returns the current position.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Count returns the number of items.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Autoplay reports whether the timer is allowed to advance the carousel.
func (c *Controller) Autoplay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// StaleTicks counts timer callbacks that arrived after Close or after the
// timer was re-armed. They never mutate state.
func (c *Controller) StaleTicks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Closed reports whether Close has run.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Next advances one step.
func (c *Controller) Next() int {
	return c.manual(func() int { return c.step(1) })
}

// Prev retreats one step.
func (c *Controller) Prev() int {
	return c.manual(func() int { return c.step(-1) })
}

// GoTo jumps to i, bounded to the reachable range.
func (c *Controller) GoTo(i int) int {
	return c.manual(func() int { return c.bound(i) })
}

// SetCount updates the number of items and pulls the index back into range.
// A count of zero disables navigation and stops the timer.
func (c *Controller) SetCount(n int) int {
	c.mu.Lock()
	if c.closed {
		idx := c.index
		c.mu.Unlock()
		return idx
	}
	changed := c.applyCount(n)
	state := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.notify(state)
	}
	return state.Index
}

// SetAutoplay turns the timer on or off explicitly.
func (c *Controller) SetAutoplay(on bool) {
	c.mu.Lock()
	if c.closed || c.autoplay == on {
		c.mu.Unlock()
		return
	}
	c.autoplay = on
	c.rearm()
	state := c.snapshot()
	c.mu.Unlock()
	c.notify(state)
}

// Offset is the horizontal translation, in percent, for the current index.
// Each step moves 100/k percent for windowed carousels and 100 otherwise.
// Left-to-right layouts move negative, right-to-left positive.
func (c *Controller) Offset(dir locale.Direction) float64 {
	c.mu.Lock()
	idx := c.index
	c.mu.Unlock()

	step := 100.0 / float64(c.cfg.Window)
	offset := step * float64(idx)
	if dir == locale.RTL {
		return offset
	}
	return -offset
}

// Close cancels the timer. Later calls do nothing and no state changes after
// Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.disarm()
}

func (c *Controller) manual(move func() int) int {
	c.mu.Lock()
	if c.closed || c.count == 0 {
		idx := c.index
		c.mu.Unlock()
		return idx
	}
	prevIndex, prevAutoplay := c.index, c.autoplay
	c.index = move()
	if c.cfg.SuspendOnManual {
		c.autoplay = false
	}
	changed := c.index != prevIndex || c.autoplay != prevAutoplay
	if changed {
		c.rearm()
	}
	state := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.notify(state)
	}
	return state.Index
}

func (c *Controller) tick(generation uint64) {
	c.mu.Lock()
	if c.closed || generation != c.generation || !c.autoplay || c.count == 0 {
		c.stale++
		stale := c.stale
		c.mu.Unlock()
		c.logger.Debug("carousel.tick.stale", "generation", generation, "stale_ticks", stale)
		return
	}
	prev := c.index
	c.index = c.step(1)
	c.arm()
	state := c.snapshot()
	c.mu.Unlock()

	if state.Index != prev {
		c.notify(state)
	}
}

// applyCount must be called with mu held.
func (c *Controller) applyCount(n int) bool {
	if n < 0 {
		n = 0
	}
	if n == c.count {
		return false
	}
	c.count = n
	if n == 0 {
		c.index = 0
	} else {
		c.index = c.bound(c.index)
	}
	c.rearm()
	return true
}

func (c *Controller) step(delta int) int {
	n := c.count
	if n == 0 {
		return 0
	}
	if c.cfg.Policy == Wrap {
		return ((c.index+delta)%n + n) % n
	}
	return c.bound(c.index + delta)
}

func (c *Controller) bound(i int) int {
	last := c.lastIndex()
	if i < 0 {
		return 0
	}
	if i > last {
		return last
	}
	return i
}

func (c *Controller) lastIndex() int {
	if c.count == 0 {
		return 0
	}
	if c.cfg.Policy == Clamp {
		return max(c.count-c.cfg.Window, 0)
	}
	return c.count - 1
}

func (c *Controller) rearm() {
	c.disarm()
	if c.autoplay && c.count > 0 && !c.closed {
		c.arm()
	}
}

func (c *Controller) arm() {
	c.generation++
	generation := c.generation
	c.timer = c.clock.AfterFunc(c.cfg.Interval, func() { c.tick(generation) })
}

func (c *Controller) disarm() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

func (c *Controller) snapshot() State {
	return State{Index: c.index, Count: c.count, Autoplay: c.autoplay}
}

func (c *Controller) notify(state State) {
	if c.onChange != nil {
		c.onChange(state)
	}
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	return time.AfterFunc(d, fn)
}
