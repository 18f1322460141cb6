package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/goliatone/go-content-sync/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := storage.Open(context.Background(), storage.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var one int
	require.NoError(t, db.NewSelect().ColumnExpr("1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := storage.Open(context.Background(), storage.Config{Driver: "mysql", DSN: "x"})
	assert.ErrorIs(t, err, storage.ErrDriverUnsupported)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := storage.Open(context.Background(), storage.Config{Driver: "postgres"})
	assert.ErrorIs(t, err, storage.ErrDSNRequired)
}

func TestOpenRejectsMalformedPostgresDSN(t *testing.T) {
	_, err := storage.Open(context.Background(), storage.Config{Driver: "postgres", DSN: "postgres://%zz"})
	assert.Error(t, err)
}

func TestPersistent(t *testing.T) {
	assert.True(t, storage.Config{Driver: "SQLite"}.Persistent())
	assert.True(t, storage.Config{Driver: "postgres"}.Persistent())
	assert.False(t, storage.Config{Driver: "memory"}.Persistent())
	assert.False(t, storage.Config{}.Persistent())
}
