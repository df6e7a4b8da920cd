package search

import (
	"context"
	"errors"
)

// Signal-tagged failures so callers can tell which ranking leg broke.
var (
	ErrSemanticSignal = errors.New("semantic signal failed")
	ErrLexicalSignal  = errors.New("lexical signal failed")
)

// Store produces ranked candidates for each signal. Implementations must
// exclude tombstoned entries and entries without the artifact the signal
// needs (no embedding, empty search text).
type Store interface {
	// Nearest returns up to limit entries ordered by vector similarity
	// to the query embedding, highest first. Scores are cosine
	// similarities in [-1, 1].
	Nearest(ctx context.Context, embedding []float64, limit int) ([]Match, error)

	// LexicalMatch returns up to limit entries ordered by lexical
	// relevance to the query text, highest first. Scores are
	// non-negative and engine-specific.
	LexicalMatch(ctx context.Context, text string, limit int) ([]Match, error)
}

// Embedder turns texts into embedding vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
