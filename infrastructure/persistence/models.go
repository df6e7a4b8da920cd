// Package persistence implements the catalog store on SQLite and PostgreSQL.
package persistence

import (
	"time"

	"github.com/lastmile-ai/mcp-registry-search/internal/database"
)

// ServerModel is the database representation of an indexed catalog entry.
// The schema is created by EnsureSchema rather than AutoMigrate because both
// backends need artifacts GORM cannot express (FTS5 sidecar, pgvector and
// tsvector columns).
type ServerModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex"`
	Description string `gorm:"column:description"`
	Version     string `gorm:"column:version"`
	Repository  string `gorm:"column:repository"`
	Packages    string `gorm:"column:packages"`
	Remotes     string `gorm:"column:remotes"`
	Status      string `gorm:"column:status;index"`
	IsLatest    bool   `gorm:"column:is_latest"`
	SearchText  string `gorm:"column:search_text"`

	// Embedding serializes to "[1,2,3]": a pgvector literal on PostgreSQL
	// and a JSON array in the TEXT column on SQLite. NULL when absent.
	Embedding database.Vector `gorm:"column:embedding;type:text"`

	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ServerModel) TableName() string { return "servers" }

// serverScoreRow is the scan target for ranked search queries: a full row
// plus the signal score.
type serverScoreRow struct {
	ServerModel
	Score float64 `gorm:"column:score"`
}
