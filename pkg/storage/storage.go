package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Supported drivers. DriverMemory means no database is opened.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrDriverUnsupported = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config selects the database backing persisted state.
type Config struct {
	Driver string
	DSN    string
}

// Persistent reports whether the config opens a database.
func (c Config) Persistent() bool {
	driver := strings.ToLower(strings.TrimSpace(c.Driver))
	return driver == DriverSQLite || driver == DriverPostgres
}

// Open connects to the configured database and verifies it with a ping.
// Callers own the returned handle.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if dsn == "" && (driver == DriverSQLite || driver == DriverPostgres) {
		return nil, ErrDSNRequired
	}

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case DriverPostgres:
		connCfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: parse postgres dsn: %w", err)
		}
		db = bun.NewDB(stdlib.OpenDB(*connCfg), pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", driver, err)
	}
	return db, nil
}
