package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lastmile-ai/mcp-registry-search/domain/server"
)

// stubStore implements Store with fixed candidate lists.
type stubStore struct {
	nearest     []Match
	lexical     []Match
	nearestErr  error
	lexicalErr  error
	nearestHits int
	lexicalHits int
}

func (s *stubStore) Nearest(_ context.Context, _ []float64, _ int) ([]Match, error) {
	s.nearestHits++
	return s.nearest, s.nearestErr
}

func (s *stubStore) LexicalMatch(_ context.Context, _ string, _ int) ([]Match, error) {
	s.lexicalHits++
	return s.lexical, s.lexicalErr
}

func active(name string) server.Server {
	return server.New(name, "desc", "1.0.0")
}

func TestEngine_Search_BothWeightsZero(t *testing.T) {
	store := &stubStore{}
	engine := NewEngine(store)

	q := NewQuery("query", []float64{1}).
		WithSemanticWeight(0).
		WithFullTextWeight(0)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
	if store.nearestHits != 0 || store.lexicalHits != 0 {
		t.Error("store must not be queried when both weights are zero")
	}
}

func TestEngine_Search_FusesSignals(t *testing.T) {
	store := &stubStore{
		nearest: []Match{
			NewMatch(active("a"), 0.9),
			NewMatch(active("b"), 0.5),
		},
		lexical: []Match{
			NewMatch(active("b"), 0.8),
			NewMatch(active("c"), 0.6),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", []float64{1}).WithLimit(10)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// b appears in both signals: 0.5 + 0.8 = 1.3, ahead of a (0.9) and c (0.6)
	wantOrder := []string{"b", "a", "c"}
	wantScores := []float64{1.3, 0.9, 0.6}
	for i, r := range results {
		if r.Server().Name() != wantOrder[i] {
			t.Errorf("result[%d] = %q, want %q", i, r.Server().Name(), wantOrder[i])
		}
		if math.Abs(r.Score()-wantScores[i]) > 1e-9 {
			t.Errorf("result[%d] score = %v, want %v", i, r.Score(), wantScores[i])
		}
	}

	if results[0].SemanticScore() != 0.5 || results[0].LexicalScore() != 0.8 {
		t.Errorf("per-signal scores wrong: sem=%v lex=%v",
			results[0].SemanticScore(), results[0].LexicalScore())
	}
}

func TestEngine_Search_WeightsScaleSignals(t *testing.T) {
	store := &stubStore{
		nearest: []Match{NewMatch(active("sem"), 1.0)},
		lexical: []Match{NewMatch(active("lex"), 1.0)},
	}
	engine := NewEngine(store)

	q := NewQuery("query", []float64{1}).
		WithSemanticWeight(2.0).
		WithFullTextWeight(0.5)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Server().Name() != "sem" {
		t.Errorf("expected semantic hit first, got %q", results[0].Server().Name())
	}
	if math.Abs(results[0].Score()-2.0) > 1e-9 || math.Abs(results[1].Score()-0.5) > 1e-9 {
		t.Errorf("scores = %v, %v", results[0].Score(), results[1].Score())
	}
}

func TestEngine_Search_StatusMultiplier(t *testing.T) {
	store := &stubStore{
		lexical: []Match{
			NewMatch(active("active").WithStatus(server.StatusActive), 1.0),
			NewMatch(active("deprecated").WithStatus(server.StatusDeprecated), 1.0),
			NewMatch(active("inactive").WithStatus(server.StatusInactive), 1.0),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", nil).WithSemanticWeight(0)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"active", "deprecated", "inactive"}
	for i, r := range results {
		if r.Server().Name() != wantOrder[i] {
			t.Errorf("result[%d] = %q, want %q", i, r.Server().Name(), wantOrder[i])
		}
	}
	if math.Abs(results[1].Score()-0.85) > 1e-9 {
		t.Errorf("deprecated score = %v, want 0.85", results[1].Score())
	}
}

func TestEngine_Search_LatestMultiplier(t *testing.T) {
	store := &stubStore{
		lexical: []Match{
			NewMatch(active("stale").WithIsLatest(false), 1.0),
			NewMatch(active("fresh"), 1.0),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", nil).WithSemanticWeight(0)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Server().Name() != "fresh" {
		t.Errorf("expected latest version first, got %q", results[0].Server().Name())
	}
	if math.Abs(results[1].Score()-0.90) > 1e-9 {
		t.Errorf("non-latest score = %v, want 0.90", results[1].Score())
	}
}

func TestEngine_Search_ExcludesTombstones(t *testing.T) {
	store := &stubStore{
		lexical: []Match{
			NewMatch(active("alive"), 0.5),
			NewMatch(active("dead").WithStatus(server.StatusDeleted), 1.0),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", nil).WithSemanticWeight(0)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Server().Name() != "alive" {
		t.Errorf("tombstones must never rank, got %d results", len(results))
	}
}

func TestEngine_Search_TieBreakByName(t *testing.T) {
	store := &stubStore{
		lexical: []Match{
			NewMatch(active("zeta"), 1.0),
			NewMatch(active("alpha"), 1.0),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", nil).WithSemanticWeight(0)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Server().Name() != "alpha" {
		t.Errorf("equal scores must order by name, got %q first", results[0].Server().Name())
	}
}

func TestEngine_Search_TruncatesToLimit(t *testing.T) {
	matches := make([]Match, 10)
	for i := range matches {
		matches[i] = NewMatch(active(string(rune('a'+i))), float64(10-i))
	}
	store := &stubStore{lexical: matches}
	engine := NewEngine(store)

	q := NewQuery("query", nil).WithSemanticWeight(0).WithLimit(3)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestEngine_Search_SignalErrors(t *testing.T) {
	boom := errors.New("boom")

	store := &stubStore{nearestErr: boom}
	engine := NewEngine(store)
	_, err := engine.Search(context.Background(), NewQuery("query", []float64{1}))
	if !errors.Is(err, ErrSemanticSignal) || !errors.Is(err, boom) {
		t.Errorf("expected wrapped semantic signal error, got %v", err)
	}

	store = &stubStore{lexicalErr: boom}
	engine = NewEngine(store)
	_, err = engine.Search(context.Background(), NewQuery("query", nil).WithSemanticWeight(0))
	if !errors.Is(err, ErrLexicalSignal) || !errors.Is(err, boom) {
		t.Errorf("expected wrapped lexical signal error, got %v", err)
	}
}

func TestEngine_Search_KeepsNonPositiveScores(t *testing.T) {
	store := &stubStore{
		nearest: []Match{
			NewMatch(active("close"), 0.9),
			// Cosine similarity can go negative for opposing vectors.
			NewMatch(active("opposite"), -0.3),
			NewMatch(active("orthogonal"), 0),
		},
	}
	engine := NewEngine(store)

	q := NewQuery("query", []float64{1}).WithLimit(10)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantOrder := []string{"close", "orthogonal", "opposite"}
	for i, want := range wantOrder {
		if got := results[i].Server().Name(); got != want {
			t.Errorf("results[%d] = %q, want %q", i, got, want)
		}
	}
	if results[2].Score() >= 0 {
		t.Errorf("opposite score = %v, want negative", results[2].Score())
	}
}

func TestEngine_Search_SkipsSemanticWithoutEmbedding(t *testing.T) {
	store := &stubStore{
		lexical: []Match{NewMatch(active("a"), 1.0)},
	}
	engine := NewEngine(store)

	// Semantic weight is positive but no embedding is available.
	q := NewQuery("query", nil)

	results, err := engine.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.nearestHits != 0 {
		t.Error("semantic leg must not run without an embedding")
	}
	if len(results) != 1 {
		t.Errorf("expected lexical result, got %d", len(results))
	}
}
