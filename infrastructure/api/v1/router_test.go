package v1_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/domain/server"
	v1 "github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1/dto"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/persistence"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{1, 0, 0}
	}
	return vectors, nil
}

func newTestClient(t *testing.T) *registrysearch.Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	client, err := registrysearch.New(
		registrysearch.WithSQLite(dbPath),
		registrysearch.WithEmbedder(stubEmbedder{}),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// newTestClientWithSeededServers opens the DB first to seed catalog rows,
// then creates the client on the same file.
func newTestClientWithSeededServers(t *testing.T) *registrysearch.Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	db, err := database.NewDatabase(ctx, "sqlite:///"+dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	store, err := persistence.NewServerStore(ctx, db, 3, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	seeds := []server.Server{
		server.New("io.example/filesystem", "Read and write local files", "1.2.0").
			WithStatus(server.StatusActive).
			WithIsLatest(true).
			WithEmbedding([]float64{1, 0, 0}),
		server.New("io.example/weather", "Weather forecasts by location", "0.4.1").
			WithStatus(server.StatusActive).
			WithIsLatest(true).
			WithEmbedding([]float64{0, 1, 0}),
	}
	for _, srv := range seeds {
		if _, err := store.Upsert(ctx, srv); err != nil {
			t.Fatalf("seed server: %v", err)
		}
	}
	_ = db.Close()

	client, err := registrysearch.New(
		registrysearch.WithSQLite(dbPath),
		registrysearch.WithEmbedder(stubEmbedder{}),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSearchRouter_RequiresQuery(t *testing.T) {
	client := newTestClient(t)

	routes := v1.NewSearchRouter(client).Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status code = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestSearchRouter_Search(t *testing.T) {
	client := newTestClientWithSeededServers(t)

	routes := v1.NewSearchRouter(client).Routes()

	req := httptest.NewRequest(http.MethodGet, "/?q=local+files&limit=5", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %v, want %v: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response dto.SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Query != "local files" {
		t.Errorf("query = %q, want %q", response.Query, "local files")
	}
	if response.Count == 0 || len(response.Results) != response.Count {
		t.Fatalf("count = %d, results = %d", response.Count, len(response.Results))
	}
	if response.Results[0].Name != "io.example/filesystem" {
		t.Errorf("top result = %q, want io.example/filesystem", response.Results[0].Name)
	}
	if response.Results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", response.Results[0].Score)
	}
}

func TestServersRouter_List(t *testing.T) {
	client := newTestClientWithSeededServers(t)

	routes := v1.NewServersRouter(client).Routes()

	req := httptest.NewRequest(http.MethodGet, "/?limit=1", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %v, want %v", w.Code, http.StatusOK)
	}

	var response dto.ServersResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Count != 1 || len(response.Servers) != 1 {
		t.Fatalf("count = %d, servers = %d, want 1", response.Count, len(response.Servers))
	}
	if response.Total != 2 {
		t.Errorf("total = %d, want 2", response.Total)
	}
	if response.Limit != 1 || response.Offset != 0 {
		t.Errorf("limit/offset = %d/%d, want 1/0", response.Limit, response.Offset)
	}
}

func TestServersRouter_Get(t *testing.T) {
	client := newTestClientWithSeededServers(t)

	routes := v1.NewServersRouter(client).Routes()

	req := httptest.NewRequest(http.MethodGet, "/io.example/filesystem", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status code = %v, want %v: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response dto.Server
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Name != "io.example/filesystem" {
		t.Errorf("name = %q, want io.example/filesystem", response.Name)
	}
	if response.Version != "1.2.0" {
		t.Errorf("version = %q, want 1.2.0", response.Version)
	}
}

func TestServersRouter_Get_NotFound(t *testing.T) {
	client := newTestClient(t)

	routes := v1.NewServersRouter(client).Routes()

	req := httptest.NewRequest(http.MethodGet, "/io.example/missing", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status code = %v, want %v", w.Code, http.StatusNotFound)
	}
}
