// Package storage opens the Bun database backing the content store and creates
// the translation tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-autotranslate/internal/content"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrDriverUnsupported = errors.New("storage: unsupported driver")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Open returns a Bun handle for the configured driver.
func Open(driver, dsn string) (*bun.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrDSNRequired
	}
	switch driver {
	case DriverSQLite, "sqlite3":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqldb, sqlitedialect.New())
		// sqlite serializes writers; a single connection keeps shared in-memory
		// databases coherent.
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "postgresql", "pg":
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnsupported, driver)
	}
}

// CreateSchema creates the item and translation tables along with the unique
// index the translation upsert depends on.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: bun db is nil")
	}
	models := []any{
		(*content.Item)(nil),
		(*content.Translation)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table: %w", err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*content.Translation)(nil)).
		Index("content_translations_type_content_language_idx").
		Unique().
		IfNotExists().
		Column("content_type", "content_id", "language").
		Exec(ctx); err != nil {
		return fmt.Errorf("storage: create translation index: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*content.Item)(nil)).
		Index("content_items_type_status_idx").
		IfNotExists().
		Column("content_type", "status").
		Exec(ctx); err != nil {
		return fmt.Errorf("storage: create item index: %w", err)
	}
	return nil
}
