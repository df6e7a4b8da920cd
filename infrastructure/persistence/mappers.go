package persistence

import (
	"encoding/json"
	"time"

	"github.com/lastmile-ai/mcp-registry-search/domain/server"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// serverMapper converts between server.Server and ServerModel.
type serverMapper struct{}

// ToDomain converts a database model to a domain value.
func (serverMapper) ToDomain(entity ServerModel) server.Server {
	srv := server.New(entity.Name, entity.Description, entity.Version).
		WithID(entity.ID).
		WithRepository(rawFromColumn(entity.Repository)).
		WithPackages(rawFromColumn(entity.Packages)).
		WithRemotes(rawFromColumn(entity.Remotes)).
		WithStatus(server.ParseStatus(entity.Status)).
		WithIsLatest(entity.IsLatest).
		WithEmbedding(entity.Embedding.Floats()).
		WithTimestamps(entity.CreatedAt, entity.UpdatedAt)

	if entity.PublishedAt != nil {
		srv = srv.WithPublishedAt(*entity.PublishedAt)
	}
	return srv
}

// ToModel converts a domain value to a database model.
func (serverMapper) ToModel(srv server.Server) ServerModel {
	model := ServerModel{
		ID:          srv.ID(),
		Name:        srv.Name(),
		Description: srv.Description(),
		Version:     srv.Version(),
		Repository:  columnFromRaw(srv.Repository()),
		Packages:    columnFromRaw(srv.Packages()),
		Remotes:     columnFromRaw(srv.Remotes()),
		Status:      srv.Status().String(),
		IsLatest:    srv.IsLatest(),
		SearchText:  srv.SearchTextValue(),
		Embedding:   database.NewVector(srv.Embedding()),
	}

	if published := srv.PublishedAt(); !published.IsZero() {
		t := published.UTC()
		model.PublishedAt = &t
	}
	return model
}

func rawFromColumn(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func columnFromRaw(raw json.RawMessage) string {
	return string(raw)
}

// contentEqual reports whether two models carry the same indexed content.
// Identity and row timestamps are ignored.
func contentEqual(a, b ServerModel) bool {
	return a.Name == b.Name &&
		a.Description == b.Description &&
		a.Version == b.Version &&
		a.Repository == b.Repository &&
		a.Packages == b.Packages &&
		a.Remotes == b.Remotes &&
		a.Status == b.Status &&
		a.IsLatest == b.IsLatest &&
		a.SearchText == b.SearchText &&
		a.Embedding.String() == b.Embedding.String() &&
		publishedEqual(a.PublishedAt, b.PublishedAt)
}

func publishedEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
