package server

import (
	"context"

	"github.com/lastmile-ai/mcp-registry-search/domain/store"
)

// UpsertOutcome describes what an upsert did to the row.
type UpsertOutcome int

// UpsertOutcome values.
const (
	OutcomeUnchanged UpsertOutcome = iota
	OutcomeInserted
	OutcomeUpdated
)

// String returns a readable outcome label.
func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Store persists catalog entries keyed by name.
type Store interface {
	// Find returns entries matching the given options.
	Find(ctx context.Context, options ...store.Option) ([]Server, error)

	// FindOne returns a single entry, or database.ErrNotFound.
	FindOne(ctx context.Context, options ...store.Option) (Server, error)

	// Count returns the number of entries matching the given options.
	Count(ctx context.Context, options ...store.Option) (int64, error)

	// Upsert writes the entry keyed by name. An entry identical to the
	// stored row is left untouched and reported as unchanged.
	Upsert(ctx context.Context, srv Server) (UpsertOutcome, error)

	// MarkDeletedExcept tombstones every non-deleted entry whose name is
	// absent from keep, clearing its embedding. It returns the number of
	// entries tombstoned.
	MarkDeletedExcept(ctx context.Context, keep []string) (int64, error)
}

// WithName filters by the unique server name.
func WithName(name string) store.Option {
	return store.WithCondition("name", name)
}

// WithStatus filters by lifecycle status.
func WithStatus(status Status) store.Option {
	return store.WithCondition("status", status.String())
}

// WithStatusNotIn excludes the given lifecycle statuses.
func WithStatusNotIn(statuses ...Status) store.Option {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}
	return store.WithConditionNotIn("status", values)
}

// OrderByName orders results by name ascending.
func OrderByName() store.Option {
	return store.WithOrderAsc("name")
}
