// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// SearchOption configures a search request.
type SearchOption func(*searchConfig)

// searchConfig holds search parameters.
type searchConfig struct {
	limit          int
	fullTextWeight float64
	semanticWeight float64
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) SearchOption {
	return func(c *searchConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithFullTextWeight sets the lexical signal weight.
func WithFullTextWeight(w float64) SearchOption {
	return func(c *searchConfig) {
		if w >= 0 {
			c.fullTextWeight = w
		}
	}
}

// WithSemanticWeight sets the vector signal weight.
func WithSemanticWeight(w float64) SearchOption {
	return func(c *searchConfig) {
		if w >= 0 {
			c.semanticWeight = w
		}
	}
}

// Search embeds query text and runs the hybrid ranking engine.
type Search struct {
	engine       search.Engine
	embedder     search.Embedder
	defaultLimit int
	logger       *slog.Logger
}

// NewSearch creates a Search service.
func NewSearch(store search.Store, embedder search.Embedder, cfg config.AppConfig, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{
		engine:       search.NewEngine(store),
		embedder:     embedder,
		defaultLimit: cfg.SearchLimit(),
		logger:       logger,
	}
}

// Search runs a hybrid search for the query text. Empty or whitespace-only
// text is rejected. When both weights are zero the result is empty and
// neither the embedder nor the store is called.
func (s *Search) Search(ctx context.Context, text string, opts ...SearchOption) ([]search.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}

	cfg := &searchConfig{
		limit:          s.defaultLimit,
		fullTextWeight: search.DefaultFullTextWeight,
		semanticWeight: search.DefaultSemanticWeight,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.fullTextWeight == 0 && cfg.semanticWeight == 0 {
		return []search.Result{}, nil
	}

	var embedding []float64
	if cfg.semanticWeight > 0 {
		vectors, err := s.embedder.Embed(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("%w: embed query: %w", search.ErrSemanticSignal, err)
		}
		if len(vectors) > 0 {
			embedding = vectors[0]
		}
	}

	query := search.NewQuery(text, embedding).
		WithLimit(cfg.limit).
		WithFullTextWeight(cfg.fullTextWeight).
		WithSemanticWeight(cfg.semanticWeight)

	results, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "search complete",
		"query", text,
		"results", len(results),
		"limit", cfg.limit,
	)
	return results, nil
}
