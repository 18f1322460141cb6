package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderBuildsNamedLoggers(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console", Focus: []string{" ", "sync.api"}, Service: "content-sync"})
	require.NoError(t, err)

	logger := p.GetLogger("sync.api")
	require.NotNil(t, logger)
	require.NotNil(t, logger.WithFields(map[string]any{"tag": "slides"}))
	logger.Debug("adapter.ready")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	_, err := NewProvider(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestAdapterForwardsCalls(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")
	assert.Equal(t, []string{"trace", "debug", "info", "warn", "error", "fatal"}, stub.calls)

	fields := map[string]any{"tag": "slides"}
	adapted.WithFields(fields)
	fields["tag"] = "services"
	require.Len(t, stub.fields, 1)
	assert.Equal(t, "slides", stub.fields[0]["tag"])

	ctx := context.WithValue(context.Background(), struct{}{}, "v")
	adapted.WithContext(ctx)
	require.Len(t, stub.contexts, 1)
	assert.Equal(t, ctx, stub.contexts[0])
}

func TestMapLevel(t *testing.T) {
	assert.Equal(t, glog.Warn, mapLevel("warning"))
	assert.Equal(t, glog.Trace, mapLevel(" TRACE "))
	assert.Equal(t, "", mapLevel("loud"))
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
