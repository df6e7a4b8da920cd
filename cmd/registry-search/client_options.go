package main

import (
	"log/slog"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// clientOptions returns the registrysearch.Option slice shared by all
// entrypoints. Callers append entrypoint-specific options before passing
// the full slice to registrysearch.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []registrysearch.Option {
	return []registrysearch.Option{
		registrysearch.WithConfig(cfg),
		registrysearch.WithLogger(logger),
	}
}
