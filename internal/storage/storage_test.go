package storage

import (
	"context"
	"errors"
	"testing"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mongo", "mongodb://localhost"); !errors.Is(err, ErrDriverUnsupported) {
		t.Fatalf("expected ErrDriverUnsupported, got %v", err)
	}
	if _, err := Open(DriverSQLite, " "); !errors.Is(err, ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	db, err := Open(DriverSQLite, "file:storage_schema_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("second create schema: %v", err)
	}

	var count int
	if err := db.NewRaw("SELECT COUNT(*) FROM content_translations").Scan(ctx, &count); err != nil {
		t.Fatalf("query translations table: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d rows", count)
	}
}
