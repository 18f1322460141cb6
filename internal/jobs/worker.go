// Package jobs runs background maintenance for the content cache.
package jobs

import (
	"context"
	"errors"
	"time"

	synccmd "github.com/goliatone/go-content-sync/internal/commands/sync"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// Refresher executes cache refresh commands.
type Refresher interface {
	Execute(ctx context.Context, msg synccmd.RefreshContentCommand) error
}

// Worker periodically drops and re-warms cached content so visitors rarely
// hit a cold cache after the TTL expires.
type Worker struct {
	refresher Refresher
	interval  time.Duration
	tags      []string
	locales   []string
	logger    interfaces.Logger
	now       func() time.Time

	runs     int
	failures int
}

type Option func(*Worker)

func WithTags(tags ...string) Option {
	return func(w *Worker) {
		w.tags = append([]string(nil), tags...)
	}
}

func WithLocales(locales ...string) Option {
	return func(w *Worker) {
		w.locales = append([]string(nil), locales...)
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func NewWorker(refresher Refresher, interval time.Duration, opts ...Option) *Worker {
	w := &Worker{
		refresher: refresher,
		interval:  interval,
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process runs one refresh-and-warm pass.
func (w *Worker) Process(ctx context.Context) error {
	if w.refresher == nil {
		return errors.New("jobs: refresher is nil")
	}
	started := w.now()
	w.runs++
	err := w.refresher.Execute(ctx, synccmd.RefreshContentCommand{
		Tags:    w.tags,
		Warm:    true,
		Locales: w.locales,
	})
	if err != nil {
		w.failures++
		w.logger.Warn("jobs.warm.failed", "run", w.runs, "error", err)
		return err
	}
	w.logger.Debug("jobs.warm.completed", "run", w.runs, "duration_ms", w.now().Sub(started).Milliseconds())
	return nil
}

// Run calls Process every interval until ctx is done. A failed pass is
// logged and the loop keeps going.
func (w *Worker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return errors.New("jobs: interval must be positive")
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = w.Process(ctx)
		}
	}
}

// Stats reports how many passes ran and how many failed. Not safe to call
// while Run is active.
func (w *Worker) Stats() (runs, failures int) {
	return w.runs, w.failures
}
