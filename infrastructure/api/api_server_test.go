package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api/v1/dto"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// deadlineEmbedder records whether each Embed call carried a context
// deadline.
type deadlineEmbedder struct {
	mu        sync.Mutex
	deadlines []bool
}

func (e *deadlineEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	_, has := ctx.Deadline()
	e.mu.Lock()
	e.deadlines = append(e.deadlines, has)
	e.mu.Unlock()

	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

func (e *deadlineEmbedder) calls() []bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]bool, len(e.deadlines))
	copy(out, e.deadlines)
	return out
}

func newAPIHandler(t *testing.T, embedder *deadlineEmbedder) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"servers": [
				{
					"server": {
						"name": "ai.example/files",
						"description": "File access",
						"version": "1.0.0"
					},
					"_meta": {
						"io.modelcontextprotocol.registry/official": {
							"status": "active",
							"isLatest": true
						}
					}
				}
			],
			"metadata": {}
		}`))
	}))
	t.Cleanup(upstream.Close)

	client, err := registrysearch.New(
		registrysearch.WithDatabaseURL("sqlite:///:memory:"),
		registrysearch.WithEmbedder(embedder),
		registrysearch.WithEmbeddingEndpoint(config.NewEndpointWithOptions(config.WithDimension(3))),
		registrysearch.WithRegistryURL(upstream.URL),
		registrysearch.WithCronSecret("cron-secret"),
	)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewAPIServer(client).Handler()
}

func TestNewHTTPServer_NoConnectionWriteDeadline(t *testing.T) {
	srv := newHTTPServer(":0", nil)

	// Streaming endpoints share this server; a connection-wide write or
	// read deadline would cut long-lived streams.
	if srv.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %v, want 0", srv.WriteTimeout)
	}
	if srv.ReadTimeout != 0 {
		t.Errorf("ReadTimeout = %v, want 0", srv.ReadTimeout)
	}
	if srv.ReadHeaderTimeout == 0 {
		t.Error("ReadHeaderTimeout must be set")
	}
	if srv.IdleTimeout == 0 {
		t.Error("IdleTimeout must be set")
	}
}

func TestSyncEndpoint_RunsWithoutRequestDeadline(t *testing.T) {
	embedder := &deadlineEmbedder{}
	handler := newAPIHandler(t, embedder)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp dto.SyncResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Inserted != 1 || !resp.Complete {
		t.Errorf("summary = %+v, want 1 inserted and complete", resp)
	}

	calls := embedder.calls()
	if len(calls) == 0 {
		t.Fatal("expected the sync to embed the fetched entry")
	}
	for i, hasDeadline := range calls {
		if hasDeadline {
			t.Errorf("embed call %d ran under a request deadline", i)
		}
	}
}

func TestSearchEndpoint_RunsUnderRequestDeadline(t *testing.T) {
	embedder := &deadlineEmbedder{}
	handler := newAPIHandler(t, embedder)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=files", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	calls := embedder.calls()
	if len(calls) != 1 {
		t.Fatalf("embed calls = %d, want 1", len(calls))
	}
	if !calls[0] {
		t.Error("query embedding must run under the route timeout")
	}
}
