package service

import (
	"context"

	"github.com/lastmile-ai/mcp-registry-search/domain/server"
	"github.com/lastmile-ai/mcp-registry-search/domain/store"
)

// Servers exposes read access to the indexed catalog.
type Servers struct {
	store server.Store
}

// NewServers creates a Servers service.
func NewServers(st server.Store) *Servers {
	return &Servers{store: st}
}

// List returns non-deleted entries ordered by name. A non-positive limit
// returns everything from offset onward.
func (s *Servers) List(ctx context.Context, limit, offset int) ([]server.Server, error) {
	options := []store.Option{
		server.WithStatusNotIn(server.StatusDeleted),
		server.OrderByName(),
	}
	if limit > 0 {
		options = append(options, store.WithLimit(limit))
	}
	if offset > 0 {
		options = append(options, store.WithOffset(offset))
	}
	return s.store.Find(ctx, options...)
}

// Count returns the number of non-deleted entries.
func (s *Servers) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx, server.WithStatusNotIn(server.StatusDeleted))
}

// Get returns the entry with the given name, tombstoned or not, so callers
// can distinguish "never indexed" from "removed upstream". Returns
// database.ErrNotFound when the name was never indexed.
func (s *Servers) Get(ctx context.Context, name string) (server.Server, error) {
	return s.store.FindOne(ctx, server.WithName(name))
}
