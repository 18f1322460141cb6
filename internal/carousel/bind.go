package carousel

import (
	"context"

	"github.com/goliatone/go-content-sync/internal/query"
)

// Loader fetches the items shown by a carousel.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Bind loads items in the background and applies their count to c. The
// result is dropped when a newer load for the same tracker resolved first or
// when c was closed meanwhile. The returned channel yields the applied items
// and is closed either way.
func Bind[T any](ctx context.Context, c *Controller, tracker *query.Tracker[[]T], load Loader[T]) <-chan []T {
	out := make(chan []T, 1)
	ticket := tracker.Dispatch()

	go func() {
		defer close(out)
		items, err := load(ctx)
		if err != nil {
			c.logger.Warn("carousel.load.failed", "ticket", uint64(ticket), "error", err)
			return
		}
		if !tracker.Resolve(ticket, items) {
			c.logger.Debug("carousel.load.superseded", "ticket", uint64(ticket))
			return
		}
		if !c.applyLoaded(len(items)) {
			c.logger.Debug("carousel.load.closed", "ticket", uint64(ticket))
			return
		}
		out <- items
	}()
	return out
}

// applyLoaded sets the count unless the controller is closed.
func (c *Controller) applyLoaded(n int) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	changed := c.applyCount(n)
	state := c.snapshot()
	c.mu.Unlock()

	if changed {
		c.notify(state)
	}
	return true
}
