package provider

import (
	"context"
	"fmt"

	"github.com/lastmile-ai/mcp-registry-search/domain/search"
)

// TextEmbedder adapts a provider Embedder to the domain search.Embedder
// interface, enforcing the configured vector dimension on every response.
type TextEmbedder struct {
	provider  Embedder
	dimension int
}

// NewTextEmbedder creates a TextEmbedder. A non-positive dimension disables
// dimension checking.
func NewTextEmbedder(p Embedder, dimension int) *TextEmbedder {
	return &TextEmbedder{provider: p, dimension: dimension}
}

// Embed generates one embedding per input text, in order.
func (t *TextEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	resp, err := t.provider.Embed(ctx, NewEmbeddingRequest(texts))
	if err != nil {
		return nil, err
	}

	embeddings := resp.Embeddings()
	if t.dimension > 0 {
		for i, e := range embeddings {
			if len(e) != t.dimension {
				return nil, fmt.Errorf("embedding %d has dimension %d, want %d", i, len(e), t.dimension)
			}
		}
	}
	return embeddings, nil
}

var _ search.Embedder = (*TextEmbedder)(nil)
