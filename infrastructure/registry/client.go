// Package registry implements the HTTP client for the upstream MCP server
// catalog.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lastmile-ai/mcp-registry-search/domain/registry"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// officialMetaKey is the registry metadata extension carrying status,
// latest flag, and publication timestamp.
const officialMetaKey = "io.modelcontextprotocol.registry/official"

// Client lists the upstream catalog over HTTP. It implements
// registry.Source.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// NewClient creates a Client from registry configuration.
func NewClient(cfg config.RegistryConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL(),
		pageSize: cfg.PageSize(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client,
// primarily for tests.
func NewClientWithHTTPClient(cfg config.RegistryConfig, httpClient *http.Client) *Client {
	c := NewClient(cfg)
	c.httpClient = httpClient
	return c
}

// listResponse is the wire shape of one catalog page.
type listResponse struct {
	Servers  []listEntry  `json:"servers"`
	Metadata pageMetadata `json:"metadata"`
}

// pageMetadata carries the pagination cursor. Both camelCase and snake_case
// spellings have appeared in the wild, so both are accepted.
type pageMetadata struct {
	NextCursor      string `json:"nextCursor"`
	NextCursorSnake string `json:"next_cursor"`
}

func (m pageMetadata) cursor() string {
	if m.NextCursor != "" {
		return m.NextCursor
	}
	return m.NextCursorSnake
}

// listEntry is one published version: the descriptor plus registry metadata.
type listEntry struct {
	Server serverPayload              `json:"server"`
	Meta   map[string]json.RawMessage `json:"_meta"`
}

// serverPayload is the descriptor subset this index cares about. Repository,
// packages, and remotes pass through untouched.
type serverPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	Repository  json.RawMessage `json:"repository"`
	Packages    json.RawMessage `json:"packages"`
	Remotes     json.RawMessage `json:"remotes"`
}

// officialMeta is the registry-official metadata extension.
type officialMeta struct {
	Status      string     `json:"status"`
	IsLatest    *bool      `json:"isLatest"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// ListPage fetches one page of catalog listings. An empty cursor requests
// the first page. Failures are reported as *registry.SourceError so callers
// can distinguish a first-page failure from mid-listing ones.
func (c *Client) ListPage(ctx context.Context, cursor string) (registry.Page, error) {
	endpoint, err := c.pageURL(cursor)
	if err != nil {
		return registry.Page{}, &registry.SourceError{Cursor: cursor, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return registry.Page{}, &registry.SourceError{Cursor: cursor, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return registry.Page{}, &registry.SourceError{Cursor: cursor, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return registry.Page{}, &registry.SourceError{
			Cursor:     cursor,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return registry.Page{}, &registry.SourceError{Cursor: cursor, Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]registry.Record, 0, len(payload.Servers))
	for _, entry := range payload.Servers {
		records = append(records, entry.toRecord())
	}

	return registry.NewPage(records, payload.Metadata.cursor()), nil
}

func (c *Client) pageURL(cursor string) (string, error) {
	u, err := url.Parse(c.baseURL + "/v0/servers")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (e listEntry) toRecord() registry.Record {
	rec := registry.NewRecord(e.Server.Name, e.Server.Description, e.Server.Version).
		WithRepository(e.Server.Repository).
		WithPackages(e.Server.Packages).
		WithRemotes(e.Server.Remotes)

	raw, ok := e.Meta[officialMetaKey]
	if !ok {
		return rec
	}

	var meta officialMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return rec
	}

	if meta.Status != "" {
		rec = rec.WithStatus(meta.Status)
	}
	if meta.IsLatest != nil {
		rec = rec.WithLatest(*meta.IsLatest)
	}
	if meta.PublishedAt != nil {
		rec = rec.WithPublishedAt(*meta.PublishedAt)
	}
	return rec
}

var _ registry.Source = (*Client)(nil)
