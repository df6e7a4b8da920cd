// Package dto defines the wire types for the v1 API.
package dto

import (
	"encoding/json"
	"time"

	"github.com/lastmile-ai/mcp-registry-search/application/service"
	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/domain/server"
)

// Server is one catalog entry on the wire.
type Server struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Repository  json.RawMessage `json:"repository,omitempty"`
	Packages    json.RawMessage `json:"packages,omitempty"`
	Remotes     json.RawMessage `json:"remotes,omitempty"`
	Status      string          `json:"status"`
	IsLatest    bool            `json:"is_latest"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// SearchResult is one ranked entry with its scores.
type SearchResult struct {
	Server
	Score         float64 `json:"score"`
	SemanticScore float64 `json:"semantic_score"`
	LexicalScore  float64 `json:"lexical_score"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// ServersResponse is the body of GET /api/v1/servers.
type ServersResponse struct {
	Servers []Server `json:"servers"`
	Count   int      `json:"count"`
	Total   int64    `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// SyncResponse is the body of POST /api/v1/sync.
type SyncResponse struct {
	Inserted   int   `json:"inserted"`
	Updated    int   `json:"updated"`
	Unchanged  int   `json:"unchanged"`
	Failed     int   `json:"failed"`
	Tombstoned int64 `json:"tombstoned"`
	Complete   bool  `json:"complete"`
	DurationMS int64 `json:"duration_ms"`
}

// FromServer converts a domain entry to its wire form.
func FromServer(srv server.Server) Server {
	out := Server{
		Name:        srv.Name(),
		Description: srv.Description(),
		Version:     srv.Version(),
		Repository:  srv.Repository(),
		Packages:    srv.Packages(),
		Remotes:     srv.Remotes(),
		Status:      srv.Status().String(),
		IsLatest:    srv.IsLatest(),
	}

	if published := srv.PublishedAt(); !published.IsZero() {
		t := published.UTC()
		out.PublishedAt = &t
	}
	if updated := srv.UpdatedAt(); !updated.IsZero() {
		t := updated.UTC()
		out.UpdatedAt = &t
	}
	return out
}

// FromResult converts a ranked result to its wire form.
func FromResult(res search.Result) SearchResult {
	return SearchResult{
		Server:        FromServer(res.Server()),
		Score:         res.Score(),
		SemanticScore: res.SemanticScore(),
		LexicalScore:  res.LexicalScore(),
	}
}

// FromSummary converts a sync summary to its wire form.
func FromSummary(summary service.Summary) SyncResponse {
	return SyncResponse{
		Inserted:   summary.Inserted(),
		Updated:    summary.Updated(),
		Unchanged:  summary.Unchanged(),
		Failed:     summary.Failed(),
		Tombstoned: summary.Tombstoned(),
		Complete:   summary.Complete(),
		DurationMS: summary.Duration().Milliseconds(),
	}
}
