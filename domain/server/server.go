// Package server defines the indexed service descriptor and its store.
package server

import (
	"encoding/json"
	"time"
)

// Server is an indexed catalog entry: one canonical version of a published
// MCP server descriptor together with its search artifacts.
type Server struct {
	id          int64
	name        string
	description string
	version     string
	repository  json.RawMessage
	packages    json.RawMessage
	remotes     json.RawMessage
	status      Status
	isLatest    bool
	searchText  string
	embedding   []float64
	publishedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a Server from catalog fields. The search text is derived from
// name and description.
func New(name, description, version string) Server {
	return Server{
		name:        name,
		description: description,
		version:     version,
		status:      StatusActive,
		isLatest:    true,
		searchText:  SearchText(name, description),
	}
}

// SearchText builds the lexical document for a descriptor. The name and
// description are joined with a single space even when either side is empty,
// so the derivation is stable under round-trips.
func SearchText(name, description string) string {
	return name + " " + description
}

// ID returns the database identifier (0 if not persisted).
func (s Server) ID() int64 { return s.id }

// Name returns the unique server name.
func (s Server) Name() string { return s.name }

// Description returns the human-readable description.
func (s Server) Description() string { return s.description }

// Version returns the canonical version string.
func (s Server) Version() string { return s.version }

// Repository returns the raw repository descriptor.
func (s Server) Repository() json.RawMessage { return s.repository }

// Packages returns the raw package descriptors.
func (s Server) Packages() json.RawMessage { return s.packages }

// Remotes returns the raw remote endpoint descriptors.
func (s Server) Remotes() json.RawMessage { return s.remotes }

// Status returns the lifecycle status.
func (s Server) Status() Status { return s.status }

// IsLatest reports whether the indexed version is the latest published one.
func (s Server) IsLatest() bool { return s.isLatest }

// SearchTextValue returns the lexical document derived from name and description.
func (s Server) SearchTextValue() string { return s.searchText }

// Embedding returns a copy of the embedding vector.
// Nil means no embedding is stored (tombstoned or not yet embedded).
func (s Server) Embedding() []float64 {
	if s.embedding == nil {
		return nil
	}
	cp := make([]float64, len(s.embedding))
	copy(cp, s.embedding)
	return cp
}

// HasEmbedding reports whether an embedding vector is stored.
func (s Server) HasEmbedding() bool { return len(s.embedding) > 0 }

// PublishedAt returns the upstream publication timestamp.
func (s Server) PublishedAt() time.Time { return s.publishedAt }

// CreatedAt returns the row creation timestamp.
func (s Server) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last modification timestamp.
func (s Server) UpdatedAt() time.Time { return s.updatedAt }

// WithID returns a copy with the database identifier set.
func (s Server) WithID(id int64) Server {
	s.id = id
	return s
}

// WithRepository returns a copy with the raw repository descriptor set.
func (s Server) WithRepository(raw json.RawMessage) Server {
	s.repository = raw
	return s
}

// WithPackages returns a copy with the raw package descriptors set.
func (s Server) WithPackages(raw json.RawMessage) Server {
	s.packages = raw
	return s
}

// WithRemotes returns a copy with the raw remote descriptors set.
func (s Server) WithRemotes(raw json.RawMessage) Server {
	s.remotes = raw
	return s
}

// WithStatus returns a copy with the lifecycle status set.
func (s Server) WithStatus(status Status) Server {
	s.status = status
	return s
}

// WithIsLatest returns a copy with the latest flag set.
func (s Server) WithIsLatest(latest bool) Server {
	s.isLatest = latest
	return s
}

// WithEmbedding returns a copy with the embedding vector set.
// Passing nil clears the embedding.
func (s Server) WithEmbedding(embedding []float64) Server {
	if embedding == nil {
		s.embedding = nil
		return s
	}
	cp := make([]float64, len(embedding))
	copy(cp, embedding)
	s.embedding = cp
	return s
}

// WithPublishedAt returns a copy with the publication timestamp set.
func (s Server) WithPublishedAt(t time.Time) Server {
	s.publishedAt = t
	return s
}

// WithTimestamps returns a copy with row timestamps set.
// Used by the persistence layer when hydrating from storage.
func (s Server) WithTimestamps(createdAt, updatedAt time.Time) Server {
	s.createdAt = createdAt
	s.updatedAt = updatedAt
	return s
}

// Tombstone returns a copy marked deleted with its embedding cleared.
func (s Server) Tombstone() Server {
	s.status = StatusDeleted
	s.embedding = nil
	return s
}

// IsDeleted reports whether the entry is a tombstone.
func (s Server) IsDeleted() bool {
	return s.status == StatusDeleted
}

// ContentEquals reports whether two descriptors carry the same indexed
// content. Row identity and timestamps are ignored so the synchronizer can
// decide whether a write is needed.
func (s Server) ContentEquals(other Server) bool {
	return s.name == other.name &&
		s.description == other.description &&
		s.version == other.version &&
		s.status == other.status &&
		s.isLatest == other.isLatest &&
		s.searchText == other.searchText &&
		rawEqual(s.repository, other.repository) &&
		rawEqual(s.packages, other.packages) &&
		rawEqual(s.remotes, other.remotes)
}

func rawEqual(a, b json.RawMessage) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return string(a) == string(b)
}
