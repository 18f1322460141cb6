package commands

import (
	"context"
	"sync"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// Outcome is the result category of one command execution.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Report describes one command execution that passed validation.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Err       error
	Outcome   Outcome
}

// Telemetry receives a Report after every execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, report Report)

// LogTelemetry logs each report. Cancelled executions log at warn since the
// caller gave up, failures at error.
func LogTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, report Report) {
		entry := logging.WithFields(logger, report.Fields)
		args := []any{"duration_ms", report.Duration.Milliseconds()}
		switch report.Outcome {
		case OutcomeSuccess:
			entry.Info("command.execute.success", args...)
		case OutcomeCancelled:
			entry.Warn("command.execute.cancelled", append(args, "error", report.Err)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", report.Err)...)
		}
	}
}

// Chain fans a report out to every non-nil telemetry in order.
func Chain[T command.Message](fns ...Telemetry[T]) Telemetry[T] {
	return func(ctx context.Context, msg T, report Report) {
		for _, fn := range fns {
			if fn != nil {
				fn(ctx, msg, report)
			}
		}
	}
}

// Tally counts outcomes per command type. The zero value is ready to use.
type Tally struct {
	mu     sync.Mutex
	counts map[string]map[Outcome]int
}

// Record adds report to the tally.
func (t *Tally) Record(report Report) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.counts == nil {
		t.counts = make(map[string]map[Outcome]int)
	}
	byOutcome := t.counts[report.Command]
	if byOutcome == nil {
		byOutcome = make(map[Outcome]int)
		t.counts[report.Command] = byOutcome
	}
	byOutcome[report.Outcome]++
}

// Count returns how many executions of commandType ended with outcome.
func (t *Tally) Count(commandType string, outcome Outcome) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[commandType][outcome]
}

// TallyTelemetry records every report into tally.
func TallyTelemetry[T command.Message](tally *Tally) Telemetry[T] {
	return func(_ context.Context, _ T, report Report) {
		tally.Record(report)
	}
}
