package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"

	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/domain/server"
	"github.com/lastmile-ai/mcp-registry-search/domain/store"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// Ranked search queries. Tombstones and rows missing the signal's artifact
// are filtered in SQL so candidates never need post-filtering.
const (
	pgNearestQuery = `
SELECT *, 1 - (embedding <=> ?::vector) AS score
FROM servers
WHERE embedding IS NOT NULL AND status <> 'deleted'
ORDER BY embedding <=> ?::vector
LIMIT ?`

	pgLexicalQuery = `
SELECT *, ts_rank_cd(tsv, websearch_to_tsquery('english', ?)) AS score
FROM servers
WHERE tsv @@ websearch_to_tsquery('english', ?)
  AND status <> 'deleted'
  AND search_text <> ''
ORDER BY score DESC, name ASC
LIMIT ?`

	sqliteLexicalQuery = `
SELECT s.*, -bm25(server_fts) AS score
FROM server_fts
JOIN servers s ON s.id = server_fts.rowid
WHERE server_fts MATCH ?
  AND s.status <> 'deleted'
  AND s.search_text <> ''
ORDER BY bm25(server_fts), s.name ASC
LIMIT ?`
)

// ErrDimensionMismatch indicates an embedding with the wrong vector
// dimension reached the store.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ServerStore persists catalog entries and serves both ranking signals.
// It implements server.Store and search.Store on SQLite and PostgreSQL.
type ServerStore struct {
	db        database.Database
	repo      database.Repository[server.Server, ServerModel]
	dimension int
	logger    *slog.Logger
}

// NewServerStore creates a ServerStore and ensures the backend schema
// exists. A non-positive dimension disables dimension checking (SQLite
// stores vectors as text and enforces nothing itself).
func NewServerStore(ctx context.Context, db database.Database, dimension int, logger *slog.Logger) (*ServerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := EnsureSchema(ctx, db, dimension, logger); err != nil {
		return nil, err
	}

	return &ServerStore{
		db:        db,
		repo:      database.NewRepository(db, serverMapper{}, "server"),
		dimension: dimension,
		logger:    logger,
	}, nil
}

// Find returns entries matching the given options.
func (s *ServerStore) Find(ctx context.Context, options ...store.Option) ([]server.Server, error) {
	return s.repo.Find(ctx, options...)
}

// FindOne returns a single entry, or database.ErrNotFound.
func (s *ServerStore) FindOne(ctx context.Context, options ...store.Option) (server.Server, error) {
	return s.repo.FindOne(ctx, options...)
}

// Count returns the number of entries matching the given options.
func (s *ServerStore) Count(ctx context.Context, options ...store.Option) (int64, error) {
	return s.repo.Count(ctx, options...)
}

// Upsert writes the entry keyed by name inside one transaction. A row whose
// indexed content already matches is left untouched so updated_at only moves
// on real changes.
func (s *ServerStore) Upsert(ctx context.Context, srv server.Server) (server.UpsertOutcome, error) {
	if srv.Name() == "" {
		return server.OutcomeUnchanged, errors.New("upsert requires a server name")
	}
	if s.dimension > 0 && srv.HasEmbedding() && len(srv.Embedding()) != s.dimension {
		return server.OutcomeUnchanged, fmt.Errorf("%w: got %d, want %d",
			ErrDimensionMismatch, len(srv.Embedding()), s.dimension)
	}

	desired := serverMapper{}.ToModel(srv)

	return database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (server.UpsertOutcome, error) {
		var existing ServerModel
		err := tx.Where("name = ?", desired.Name).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			desired.ID = 0
			if err := tx.Create(&desired).Error; err != nil {
				return server.OutcomeUnchanged, fmt.Errorf("insert server: %w", err)
			}
			return server.OutcomeInserted, nil

		case err != nil:
			return server.OutcomeUnchanged, fmt.Errorf("load server: %w", err)
		}

		if contentEqual(existing, desired) {
			return server.OutcomeUnchanged, nil
		}

		desired.ID = existing.ID
		desired.CreatedAt = existing.CreatedAt
		if err := tx.Save(&desired).Error; err != nil {
			return server.OutcomeUnchanged, fmt.Errorf("update server: %w", err)
		}
		return server.OutcomeUpdated, nil
	})
}

// MarkDeletedExcept tombstones every non-deleted entry absent from keep,
// clearing embeddings so tombstones drop out of both ranking signals. The
// rows themselves are retained.
func (s *ServerStore) MarkDeletedExcept(ctx context.Context, keep []string) (int64, error) {
	tx := s.db.Session(ctx).
		Model(&ServerModel{}).
		Where("status <> ?", server.StatusDeleted.String())

	if len(keep) > 0 {
		tx = tx.Where("name NOT IN ?", keep)
	}

	result := tx.Updates(map[string]any{
		"status":     server.StatusDeleted.String(),
		"embedding":  nil,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("mark deleted: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Nearest returns up to limit entries by vector similarity, highest first.
func (s *ServerStore) Nearest(ctx context.Context, embedding []float64, limit int) ([]search.Match, error) {
	if len(embedding) == 0 || limit <= 0 {
		return []search.Match{}, nil
	}

	if s.db.IsPostgres() {
		return s.nearestPostgres(ctx, embedding, limit)
	}
	return s.nearestSQLite(ctx, embedding, limit)
}

func (s *ServerStore) nearestPostgres(ctx context.Context, embedding []float64, limit int) ([]search.Match, error) {
	literal := database.NewVector(embedding).String()

	var rows []serverScoreRow
	err := s.db.Session(ctx).Raw(pgNearestQuery, literal, literal, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pgvector query: %w", err)
	}
	return matchesFromRows(rows), nil
}

// nearestSQLite ranks in memory: the catalog is small enough that a full
// scan of embedded rows beats maintaining a vector index in SQLite.
func (s *ServerStore) nearestSQLite(ctx context.Context, embedding []float64, limit int) ([]search.Match, error) {
	var models []ServerModel
	err := s.db.Session(ctx).
		Where("embedding IS NOT NULL").
		Where("status <> ?", server.StatusDeleted.String()).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load embedded servers: %w", err)
	}

	matches := make([]search.Match, 0, len(models))
	for _, m := range models {
		sim := cosineSimilarity(embedding, m.Embedding.Floats())
		matches = append(matches, search.NewMatch(serverMapper{}.ToDomain(m), sim))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score() != matches[j].Score() {
			return matches[i].Score() > matches[j].Score()
		}
		return matches[i].Server().Name() < matches[j].Server().Name()
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// LexicalMatch returns up to limit entries by lexical relevance, highest
// first.
func (s *ServerStore) LexicalMatch(ctx context.Context, text string, limit int) ([]search.Match, error) {
	if strings.TrimSpace(text) == "" || limit <= 0 {
		return []search.Match{}, nil
	}

	if s.db.IsPostgres() {
		return s.lexicalPostgres(ctx, text, limit)
	}
	return s.lexicalSQLite(ctx, text, limit)
}

func (s *ServerStore) lexicalPostgres(ctx context.Context, text string, limit int) ([]search.Match, error) {
	var rows []serverScoreRow
	err := s.db.Session(ctx).Raw(pgLexicalQuery, text, text, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tsquery search: %w", err)
	}
	return matchesFromRows(rows), nil
}

func (s *ServerStore) lexicalSQLite(ctx context.Context, text string, limit int) ([]search.Match, error) {
	ftsQuery := fts5Query(text)
	if ftsQuery == "" {
		return []search.Match{}, nil
	}

	var rows []serverScoreRow
	err := s.db.Session(ctx).Raw(sqliteLexicalQuery, ftsQuery, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fts5 search: %w", err)
	}
	return matchesFromRows(rows), nil
}

func matchesFromRows(rows []serverScoreRow) []search.Match {
	matches := make([]search.Match, len(rows))
	for i, row := range rows {
		matches[i] = search.NewMatch(serverMapper{}.ToDomain(row.ServerModel), row.Score)
	}
	return matches
}

// fts5Query turns free text into an FTS5 match expression: each token is
// quoted to neutralize FTS5 operators and tokens are OR-ed so partial
// matches still rank. Returns "" when the text carries no tokens.
func fts5Query(text string) string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return ""
	}

	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}

var (
	_ server.Store = (*ServerStore)(nil)
	_ search.Store = (*ServerStore)(nil)
)
