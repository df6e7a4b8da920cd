package registrysearch

import (
	"fmt"
	"log/slog"

	"github.com/lastmile-ai/mcp-registry-search/domain/search"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
	databaseURL
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database        databaseType
	dbPath          string
	dbDSN           string
	dbURL           string
	embedder        search.Embedder
	logger          *slog.Logger
	appConfig       config.AppConfig
	appConfigSet    bool
	registry        config.RegistryConfig
	registrySet     bool
	embedding       config.Endpoint
	embeddingSet    bool
	periodicSync    config.PeriodicSyncConfig
	periodicSyncSet bool
	cronSecret      string
	cronSecretSet   bool
	parallelism     int
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		appConfig: config.NewAppConfig(),
	}
}

// resolve folds the individual option overrides into the final AppConfig.
func (c *clientConfig) resolve() config.AppConfig {
	cfg := c.appConfig

	switch c.database {
	case databaseSQLite:
		config.WithDBURL(fmt.Sprintf("sqlite:///%s", c.dbPath))(&cfg)
	case databasePostgres:
		config.WithDBURL(c.dbDSN)(&cfg)
	case databaseURL:
		config.WithDBURL(c.dbURL)(&cfg)
	case databaseUnset:
		// Keep the AppConfig database URL (its default is a local SQLite file).
	}

	if c.registrySet {
		config.WithRegistryConfig(c.registry)(&cfg)
	}
	if c.embeddingSet {
		config.WithEmbeddingEndpoint(c.embedding)(&cfg)
	}
	if c.periodicSyncSet {
		config.WithPeriodicSyncConfig(c.periodicSync)(&cfg)
	}
	if c.cronSecretSet {
		config.WithCronSecret(c.cronSecret)(&cfg)
	}
	return cfg
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database. Full-text search uses FTS5,
// vector search runs an in-process cosine scan.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL with the pgvector extension.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithDatabaseURL configures the database from a URL
// (sqlite:///path or postgresql://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.database = databaseURL
		c.dbURL = url
	}
}

// WithOpenAI sets OpenAI as the embedding provider.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.embedding = config.NewEndpointWithOptions(config.WithAPIKey(apiKey))
		c.embeddingSet = true
	}
}

// WithEmbeddingEndpoint sets the embedding provider from a full endpoint
// configuration (base URL, model, dimension, retry policy).
func WithEmbeddingEndpoint(e config.Endpoint) Option {
	return func(c *clientConfig) {
		c.embedding = e
		c.embeddingSet = true
	}
}

// WithEmbedder sets a custom embedder, bypassing the OpenAI provider.
func WithEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithRegistryURL sets the upstream MCP registry base URL.
func WithRegistryURL(url string) Option {
	return func(c *clientConfig) {
		c.registry = config.NewRegistryConfig().WithRegistryBaseURL(url)
		c.registrySet = true
	}
}

// WithRegistryConfig sets the full upstream registry configuration.
func WithRegistryConfig(r config.RegistryConfig) Option {
	return func(c *clientConfig) {
		c.registry = r
		c.registrySet = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithConfig sets the full application configuration. Options applied after
// this one override individual fields.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.appConfig = cfg
		c.appConfigSet = true
	}
}

// WithCronSecret sets the bearer secret protecting the sync endpoint.
func WithCronSecret(secret string) Option {
	return func(c *clientConfig) {
		c.cronSecret = secret
		c.cronSecretSet = true
	}
}

// WithPeriodicSync configures the background catalog sync.
func WithPeriodicSync(p config.PeriodicSyncConfig) Option {
	return func(c *clientConfig) {
		c.periodicSync = p
		c.periodicSyncSet = true
	}
}

// WithSyncParallelism sets how many embedding requests the synchronizer
// dispatches concurrently. Values <= 0 are ignored.
func WithSyncParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}
