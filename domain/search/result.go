package search

import "github.com/lastmile-ai/mcp-registry-search/domain/server"

// Match is one candidate from a single ranking signal.
type Match struct {
	srv   server.Server
	score float64
}

// NewMatch creates a Match.
func NewMatch(srv server.Server, score float64) Match {
	return Match{srv: srv, score: score}
}

// Server returns the matched entry.
func (m Match) Server() server.Server { return m.srv }

// Score returns the signal score.
func (m Match) Score() float64 { return m.score }

// Result is one fused search result with the per-signal scores that
// produced it.
type Result struct {
	srv           server.Server
	score         float64
	semanticScore float64
	lexicalScore  float64
}

// NewResult creates a Result.
func NewResult(srv server.Server, score, semanticScore, lexicalScore float64) Result {
	return Result{
		srv:           srv,
		score:         score,
		semanticScore: semanticScore,
		lexicalScore:  lexicalScore,
	}
}

// Server returns the matched entry.
func (r Result) Server() server.Server { return r.srv }

// Score returns the final fused score after status and latest multipliers.
func (r Result) Score() float64 { return r.score }

// SemanticScore returns the vector similarity contribution.
func (r Result) SemanticScore() float64 { return r.semanticScore }

// LexicalScore returns the lexical relevance contribution.
func (r Result) LexicalScore() float64 { return r.lexicalScore }
