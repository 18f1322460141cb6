package testsupport

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-content-sync/pkg/interfaces"
)

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

// RecordingLogger captures entries for assertions. Children created with
// WithFields share the parent's entry list.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	fields  map[string]any
}

// NewRecordingLogger returns an empty recorder.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]LogEntry{}, fields: map[string]any{}}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, LogEntry{Level: level, Message: msg, Args: args, Fields: maps.Clone(l.fields)})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := maps.Clone(l.fields)
	maps.Copy(merged, fields)
	return &RecordingLogger{mu: l.mu, entries: l.entries, fields: merged}
}

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}

// Entries returns a snapshot of everything recorded so far.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// Messages returns the messages recorded at level.
func (l *RecordingLogger) Messages(level string) []string {
	var out []string
	for _, entry := range l.Entries() {
		if entry.Level == level {
			out = append(out, entry.Message)
		}
	}
	return out
}

// RecordingProvider hands out one shared RecordingLogger and remembers the
// names it was asked for.
type RecordingProvider struct {
	Logger *RecordingLogger
	mu     sync.Mutex
	names  []string
}

// NewRecordingProvider returns a provider backed by a fresh recorder.
func NewRecordingProvider() *RecordingProvider {
	return &RecordingProvider{Logger: NewRecordingLogger()}
}

func (p *RecordingProvider) GetLogger(name string) interfaces.Logger {
	p.mu.Lock()
	p.names = append(p.names, name)
	p.mu.Unlock()
	return p.Logger
}

// Names lists requested logger names in call order.
func (p *RecordingProvider) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...)
}
