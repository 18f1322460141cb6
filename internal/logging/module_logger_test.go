package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-content-sync/internal/logging"
	"github.com/goliatone/go-content-sync/pkg/testsupport"
)

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	provider := testsupport.NewRecordingProvider()

	logging.ContentLogger(provider).Info("repository.ready")
	logging.ModuleLogger(provider, " ").Info("root.ready")

	assert.Equal(t, []string{"sync.content", "sync"}, provider.Names())
	entries := provider.Logger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "sync.content", entries[0].Fields["module"])
	assert.Equal(t, "sync", entries[1].Fields["module"])
}

func TestModuleLoggerWithoutProviderIsNoOp(t *testing.T) {
	logger := logging.CarouselLogger(nil)
	require.NotNil(t, logger)
	logger.Debug("carousel.tick")
}

func TestWithTagSkipsBlankValues(t *testing.T) {
	recorder := testsupport.NewRecordingLogger()

	logging.WithTag(recorder, "slides", " ").Warn("repository.list.failed")

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"tag": "slides"}, entries[0].Fields)
}

func TestFromContextMergesFields(t *testing.T) {
	recorder := testsupport.NewRecordingLogger()
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"request_id": "r-1"})
	ctx = logging.ContextWithFields(ctx, map[string]any{"locale": "ar"})

	logging.FromContext(ctx, recorder).Info("http.request")

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]any{"request_id": "r-1", "locale": "ar"}, entries[0].Fields)
	assert.Nil(t, logging.ContextFields(context.Background()))
}
