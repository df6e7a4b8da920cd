package database

import (
	"context"
	"errors"
	"testing"
)

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(context.Background(), "mysql://localhost/db")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestNewDatabase_InMemorySharedAcrossSessions(t *testing.T) {
	ctx := context.Background()

	db, err := NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if !db.IsSQLite() {
		t.Fatal("expected sqlite database")
	}
	if db.IsPostgres() {
		t.Fatal("did not expect postgres database")
	}

	if err := db.Session(ctx).Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.Session(ctx).Exec(`INSERT INTO notes (body) VALUES ('hello')`).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	// A second session must see the same in-memory database, not a fresh
	// empty one from another pooled connection.
	var count int64
	if err := db.Session(ctx).Raw(`SELECT COUNT(*) FROM notes`).Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 note, got %d", count)
	}
}
