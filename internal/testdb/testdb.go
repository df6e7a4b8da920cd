// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite database.
package testdb

import (
	"context"
	"log/slog"
	"testing"

	"github.com/lastmile-ai/mcp-registry-search/infrastructure/persistence"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// Dimension is the embedding dimension used by test schemas. Small on
// purpose so tests can write vectors by hand.
const Dimension = 3

// New creates an in-memory SQLite database with the servers schema applied.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	if err := persistence.EnsureSchema(ctx, db, Dimension, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("testdb.New: ensure schema: %v", err)
	}
	return db
}

// NewPlain creates an in-memory SQLite database without applying the schema.
// Useful for tests that manage their own schema (e.g. the database package's
// own unit tests for Repository, Transaction, and Query).
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates an in-memory SQLite database and executes the given
// SQL statements to set up a custom schema.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}
