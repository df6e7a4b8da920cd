// Package search implements hybrid ranking over indexed catalog entries:
// vector similarity and lexical relevance fused into one ordered result list.
package search

// Default ranking parameters.
const (
	DefaultLimit          = 10
	DefaultFullTextWeight = 1.0
	DefaultSemanticWeight = 1.0

	// DefaultOverFetch is the candidate multiplier: each signal fetches
	// limit * DefaultOverFetch candidates before fusion so entries ranked
	// by one signal alone still survive the merge.
	DefaultOverFetch = 3
)

// Query is a hybrid search request. The embedding may be empty when the
// semantic weight is zero.
type Query struct {
	text           string
	embedding      []float64
	limit          int
	fullTextWeight float64
	semanticWeight float64
}

// NewQuery creates a Query with default limit and weights.
func NewQuery(text string, embedding []float64) Query {
	return Query{
		text:           text,
		embedding:      embedding,
		limit:          DefaultLimit,
		fullTextWeight: DefaultFullTextWeight,
		semanticWeight: DefaultSemanticWeight,
	}
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// Embedding returns the query embedding vector.
func (q Query) Embedding() []float64 { return q.embedding }

// Limit returns the maximum number of results.
func (q Query) Limit() int { return q.limit }

// FullTextWeight returns the lexical signal weight.
func (q Query) FullTextWeight() float64 { return q.fullTextWeight }

// SemanticWeight returns the vector signal weight.
func (q Query) SemanticWeight() float64 { return q.semanticWeight }

// WithLimit returns a copy with the result limit set.
func (q Query) WithLimit(n int) Query {
	if n > 0 {
		q.limit = n
	}
	return q
}

// WithFullTextWeight returns a copy with the lexical weight set.
func (q Query) WithFullTextWeight(w float64) Query {
	if w >= 0 {
		q.fullTextWeight = w
	}
	return q
}

// WithSemanticWeight returns a copy with the vector weight set.
func (q Query) WithSemanticWeight(w float64) Query {
	if w >= 0 {
		q.semanticWeight = w
	}
	return q
}
