// Package registrysearch provides a searchable index over the MCP server
// registry.
//
// It synchronizes the published catalog of MCP servers into a local database
// and serves hybrid search (full-text + vector embeddings) over it.
//
// Basic usage:
//
//	client, err := registrysearch.New(
//	    registrysearch.WithSQLite("registry-search.db"),
//	    registrysearch.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Pull the catalog from the upstream registry
//	summary, err := client.Sync.Run(ctx)
//
//	// Hybrid search
//	results, err := client.Search.Search(ctx, "kubernetes deployment tools",
//	    service.WithLimit(10),
//	)
//
//	for _, res := range results {
//	    fmt.Println(res.Server().Name(), res.Score())
//	}
package registrysearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/lastmile-ai/mcp-registry-search/application/service"
	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/persistence"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/provider"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/registry"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
	"github.com/lastmile-ai/mcp-registry-search/internal/database"
	"github.com/lastmile-ai/mcp-registry-search/internal/log"
)

// Version is the library version, overridden via ldflags in release builds.
const Version = "0.1.0"

var (
	// ErrNoEmbedder is returned when no embedding provider is configured.
	ErrNoEmbedder = errors.New("no embedding provider configured: set an OpenAI API key or supply a custom embedder")

	// ErrClientClosed is returned when the client is used after Close.
	ErrClientClosed = errors.New("client is closed")
)

// Client is the main entry point for the registry search library.
//
// Access resources via struct fields:
//
//	client.Search.Search(ctx, "query")
//	client.Servers.List(ctx, 100, 0)
//	client.Sync.Run(ctx)
type Client struct {
	// Public resource fields (direct service access)
	Search  *service.Search
	Servers *service.Servers
	Sync    *service.Sync

	db           database.Database
	store        *persistence.ServerStore
	embedder     search.Embedder
	periodicSync *service.PeriodicSync

	closers []io.Closer

	logger *slog.Logger
	cfg    config.AppConfig
	closed atomic.Bool
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cc := newClientConfig()
	for _, opt := range opts {
		opt(cc)
	}
	cfg := cc.resolve()

	logger := cc.logger
	if logger == nil {
		logger = log.NewLogger(cfg).Slog()
	}

	embedder := cc.embedder
	var closers []io.Closer
	if embedder == nil {
		if !cfg.Embedding().IsConfigured() {
			return nil, ErrNoEmbedder
		}
		p := provider.NewOpenAIProvider(cfg.Embedding())
		embedder = provider.NewTextEmbedder(p, cfg.Embedding().Dimension())
		closers = append(closers, p)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, cfg.DBURL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := persistence.NewServerStore(ctx, db, cfg.Embedding().Dimension(), logger)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("prepare schema: %w", err), errClose)
	}

	source := registry.NewClient(cfg.Registry())

	parallelism := cc.parallelism
	if parallelism == 0 {
		parallelism = cfg.Embedding().NumParallelTasks()
	}

	searchSvc := service.NewSearch(store, embedder, cfg, logger)
	serversSvc := service.NewServers(store)
	syncSvc := service.NewSync(source, store, embedder, parallelism, logger)

	client := &Client{
		Search:       searchSvc,
		Servers:      serversSvc,
		Sync:         syncSvc,
		db:           db,
		store:        store,
		embedder:     embedder,
		periodicSync: service.NewPeriodicSync(cfg.PeriodicSync(), syncSvc, logger),
		closers:      closers,
		logger:       logger,
		cfg:          cfg,
	}

	logger.Info("registry search client created",
		slog.String("db_url", database.RedactURL(cfg.DBURL())),
		slog.String("registry_url", cfg.Registry().BaseURL()),
	)

	return client, nil
}

// StartPeriodicSync starts the background catalog sync if enabled.
func (c *Client) StartPeriodicSync(ctx context.Context) {
	c.periodicSync.Start(ctx)
}

// StopPeriodicSync stops the background catalog sync and waits for any
// in-flight run to finish.
func (c *Client) StopPeriodicSync() {
	c.periodicSync.Stop()
}

// Close releases all resources and stops the background sync.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.periodicSync.Stop()

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the resolved application configuration.
func (c *Client) Config() config.AppConfig {
	return c.cfg
}

// Embedder exposes the configured embedder for tests and custom wiring.
func (c *Client) Embedder() search.Embedder {
	return c.embedder
}
