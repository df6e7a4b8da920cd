// Package registry defines the upstream catalog vocabulary: listing records,
// the paginated source, and canonical version selection.
package registry

import (
	"encoding/json"
	"time"
)

// Record is one listing entry from the upstream catalog: a single published
// version of a server descriptor plus its registry metadata.
type Record struct {
	name          string
	description   string
	version       string
	repository    json.RawMessage
	packages      json.RawMessage
	remotes       json.RawMessage
	status        string
	isLatest      bool
	hasLatestFlag bool
	publishedAt   time.Time
}

// NewRecord creates a Record from catalog fields.
func NewRecord(name, description, version string) Record {
	return Record{
		name:        name,
		description: description,
		version:     version,
	}
}

// Name returns the server name.
func (r Record) Name() string { return r.name }

// Description returns the server description.
func (r Record) Description() string { return r.description }

// Version returns the published version string.
func (r Record) Version() string { return r.version }

// Repository returns the raw repository descriptor.
func (r Record) Repository() json.RawMessage { return r.repository }

// Packages returns the raw package descriptors.
func (r Record) Packages() json.RawMessage { return r.packages }

// Remotes returns the raw remote endpoint descriptors.
func (r Record) Remotes() json.RawMessage { return r.remotes }

// Status returns the upstream lifecycle status string.
func (r Record) Status() string { return r.status }

// IsLatest reports the upstream latest flag. Only meaningful when
// HasLatestFlag is true.
func (r Record) IsLatest() bool { return r.isLatest }

// HasLatestFlag reports whether the listing carried an explicit latest flag.
func (r Record) HasLatestFlag() bool { return r.hasLatestFlag }

// PublishedAt returns the upstream publication timestamp
// (zero when the listing carried none).
func (r Record) PublishedAt() time.Time { return r.publishedAt }

// WithRepository returns a copy with the raw repository descriptor set.
func (r Record) WithRepository(raw json.RawMessage) Record {
	r.repository = raw
	return r
}

// WithPackages returns a copy with the raw package descriptors set.
func (r Record) WithPackages(raw json.RawMessage) Record {
	r.packages = raw
	return r
}

// WithRemotes returns a copy with the raw remote descriptors set.
func (r Record) WithRemotes(raw json.RawMessage) Record {
	r.remotes = raw
	return r
}

// WithStatus returns a copy with the upstream status set.
func (r Record) WithStatus(status string) Record {
	r.status = status
	return r
}

// WithLatest returns a copy carrying an explicit latest flag.
func (r Record) WithLatest(isLatest bool) Record {
	r.isLatest = isLatest
	r.hasLatestFlag = true
	return r
}

// WithPublishedAt returns a copy with the publication timestamp set.
func (r Record) WithPublishedAt(t time.Time) Record {
	r.publishedAt = t
	return r
}
