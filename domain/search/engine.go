package search

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lastmile-ai/mcp-registry-search/domain/server"
)

// Engine fuses the semantic and lexical ranking signals into one ordered
// result list.
type Engine struct {
	store     Store
	overFetch int
}

// NewEngine creates an Engine with the default candidate multiplier.
func NewEngine(store Store) Engine {
	return Engine{store: store, overFetch: DefaultOverFetch}
}

// WithOverFetch returns an Engine with the candidate multiplier set.
func (e Engine) WithOverFetch(n int) Engine {
	if n > 0 {
		e.overFetch = n
	}
	return e
}

// fused accumulates per-signal scores for one entry during the merge.
type fused struct {
	srv      server.Server
	semantic float64
	lexical  float64
}

// Search runs both enabled signals concurrently, merges candidates by name,
// and returns up to q.Limit() results ordered by final score descending with
// name ascending as the tie-break. When both weights are zero the result is
// empty and the store is never queried. An entry absent from both candidate
// sets never appears; a candidate keeps its slot even when its weighted
// score is zero or negative, it just sorts to the bottom.
func (e Engine) Search(ctx context.Context, q Query) ([]Result, error) {
	if q.SemanticWeight() == 0 && q.FullTextWeight() == 0 {
		return []Result{}, nil
	}

	candidates := q.Limit() * e.overFetch

	var semantic, lexical []Match
	g, gctx := errgroup.WithContext(ctx)

	if q.SemanticWeight() > 0 && len(q.Embedding()) > 0 {
		g.Go(func() error {
			matches, err := e.store.Nearest(gctx, q.Embedding(), candidates)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSemanticSignal, err)
			}
			semantic = matches
			return nil
		})
	}

	if q.FullTextWeight() > 0 && q.Text() != "" {
		g.Go(func() error {
			matches, err := e.store.LexicalMatch(gctx, q.Text(), candidates)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrLexicalSignal, err)
			}
			lexical = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]*fused, len(semantic)+len(lexical))
	for _, m := range semantic {
		merged[m.Server().Name()] = &fused{srv: m.Server(), semantic: m.Score()}
	}
	for _, m := range lexical {
		if f, ok := merged[m.Server().Name()]; ok {
			f.lexical = m.Score()
			continue
		}
		merged[m.Server().Name()] = &fused{srv: m.Server(), lexical: m.Score()}
	}

	results := make([]Result, 0, len(merged))
	for _, f := range merged {
		if f.srv.IsDeleted() {
			continue
		}

		raw := f.semantic*q.SemanticWeight() + f.lexical*q.FullTextWeight()
		score := raw * f.srv.Status().RankWeight() * server.LatestWeight(f.srv.IsLatest())

		results = append(results, NewResult(f.srv, score, f.semantic, f.lexical))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score() != results[j].Score() {
			return results[i].Score() > results[j].Score()
		}
		return results[i].Server().Name() < results[j].Server().Name()
	})

	if len(results) > q.Limit() {
		results = results[:q.Limit()]
	}
	return results, nil
}
