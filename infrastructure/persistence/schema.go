package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// SQLite schema: a plain table plus an external-content FTS5 sidecar kept in
// sync by triggers, so every write path (including raw UPDATEs) maintains the
// lexical index.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS servers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    version TEXT NOT NULL DEFAULT '',
    repository TEXT,
    packages TEXT,
    remotes TEXT,
    status TEXT NOT NULL DEFAULT 'active',
    is_latest BOOLEAN NOT NULL DEFAULT 1,
    search_text TEXT NOT NULL DEFAULT '',
    embedding TEXT,
    published_at DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	`CREATE INDEX IF NOT EXISTS servers_status_idx ON servers(status)`,

	`CREATE VIRTUAL TABLE IF NOT EXISTS server_fts USING fts5(
    search_text,
    content='servers',
    content_rowid='id',
    tokenize='porter ascii'
)`,

	`CREATE TRIGGER IF NOT EXISTS servers_fts_insert AFTER INSERT ON servers BEGIN
    INSERT INTO server_fts(rowid, search_text) VALUES (new.id, new.search_text);
END`,

	`CREATE TRIGGER IF NOT EXISTS servers_fts_delete AFTER DELETE ON servers BEGIN
    INSERT INTO server_fts(server_fts, rowid, search_text) VALUES ('delete', old.id, old.search_text);
END`,

	`CREATE TRIGGER IF NOT EXISTS servers_fts_update AFTER UPDATE ON servers BEGIN
    INSERT INTO server_fts(server_fts, rowid, search_text) VALUES ('delete', old.id, old.search_text);
    INSERT INTO server_fts(rowid, search_text) VALUES (new.id, new.search_text);
END`,
}

// PostgreSQL schema: pgvector for the semantic leg and a generated tsvector
// column with a GIN index for the lexical leg. The vector dimension is baked
// into the column type, so it is interpolated at setup time.
const pgCreateExtension = `CREATE EXTENSION IF NOT EXISTS vector`

const pgCreateTableTemplate = `CREATE TABLE IF NOT EXISTS servers (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    version TEXT NOT NULL DEFAULT '',
    repository TEXT,
    packages TEXT,
    remotes TEXT,
    status TEXT NOT NULL DEFAULT 'active',
    is_latest BOOLEAN NOT NULL DEFAULT TRUE,
    search_text TEXT NOT NULL DEFAULT '',
    embedding VECTOR(%d),
    tsv TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', search_text)) STORED,
    published_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var pgIndexes = []string{
	`CREATE INDEX IF NOT EXISTS servers_status_idx ON servers(status)`,
	`CREATE INDEX IF NOT EXISTS servers_tsv_idx ON servers USING GIN(tsv)`,
	`CREATE INDEX IF NOT EXISTS servers_embedding_idx ON servers
    USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
}

// EnsureSchema creates the catalog schema for the connected backend.
// Statements are idempotent so repeated startup is safe.
func EnsureSchema(ctx context.Context, db database.Database, dimension int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	if db.IsPostgres() {
		return ensurePostgresSchema(ctx, db, dimension, logger)
	}
	return ensureSQLiteSchema(ctx, db)
}

func ensureSQLiteSchema(ctx context.Context, db database.Database) error {
	session := db.Session(ctx)
	for _, stmt := range sqliteSchema {
		if err := session.Exec(stmt).Error; err != nil {
			return fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return nil
}

func ensurePostgresSchema(ctx context.Context, db database.Database, dimension int, logger *slog.Logger) error {
	session := db.Session(ctx)

	if err := session.Exec(pgCreateExtension).Error; err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	if err := session.Exec(fmt.Sprintf(pgCreateTableTemplate, dimension)).Error; err != nil {
		return fmt.Errorf("create servers table: %w", err)
	}

	for _, stmt := range pgIndexes {
		if err := session.Exec(stmt).Error; err != nil {
			// ivfflat indexes can fail on empty tables with some pgvector
			// versions; the store works without them, just slower.
			logger.Warn("failed to create index (may already exist)", "error", err)
		}
	}
	return nil
}
