package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///registry-search.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SearchLimit is the default search result limit.
	// Env: SEARCH_LIMIT (default: 10)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"10"`

	// CronSecret protects the HTTP sync trigger endpoint.
	// Env: CRON_SECRET
	CronSecret string `envconfig:"CRON_SECRET"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// Registry configures the upstream catalog.
	Registry RegistryEnv `envconfig:"REGISTRY"`

	// OpenAI configures the embedding endpoint.
	OpenAI OpenAIEnv `envconfig:"OPENAI"`

	// Sync configures periodic catalog syncing.
	Sync SyncEnv `envconfig:"SYNC"`

	// StreamProxy configures the authenticated upstream stream proxy.
	StreamProxy StreamProxyEnv `envconfig:"STREAM_PROXY"`
}

// RegistryEnv holds environment configuration for the upstream catalog.
type RegistryEnv struct {
	// URL is the catalog base URL.
	// Env: REGISTRY_URL (default: https://registry.modelcontextprotocol.io)
	URL string `envconfig:"URL" default:"https://registry.modelcontextprotocol.io"`

	// PageSize is the listing page size.
	// Env: REGISTRY_PAGE_SIZE (default: 100)
	PageSize int `envconfig:"PAGE_SIZE" default:"100"`

	// Timeout is the per-request timeout in seconds.
	// Env: REGISTRY_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`
}

// OpenAIEnv holds environment configuration for the embedding endpoint.
type OpenAIEnv struct {
	// APIKey is the API key for authentication.
	// Env: OPENAI_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// BaseURL overrides the API base URL for compatible providers.
	// Env: OPENAI_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the embedding model identifier.
	// Env: OPENAI_MODEL (default: text-embedding-3-small)
	Model string `envconfig:"MODEL" default:"text-embedding-3-small"`

	// Dimension is the embedding vector dimension.
	// Env: OPENAI_DIMENSION (default: 1536)
	Dimension int `envconfig:"DIMENSION" default:"1536"`

	// Timeout is the request timeout in seconds.
	// Env: OPENAI_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: OPENAI_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: OPENAI_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: OPENAI_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`

	// NumParallelTasks is the number of concurrent embedding calls.
	// Env: OPENAI_NUM_PARALLEL_TASKS (default: 8)
	NumParallelTasks int `envconfig:"NUM_PARALLEL_TASKS" default:"8"`
}

// SyncEnv holds environment configuration for periodic sync.
type SyncEnv struct {
	// Enabled controls whether periodic sync is enabled.
	// Env: SYNC_ENABLED (default: true)
	Enabled bool `envconfig:"ENABLED" default:"true"`

	// IntervalSeconds is the sync interval in seconds.
	// Env: SYNC_INTERVAL_SECONDS (default: 3600)
	IntervalSeconds float64 `envconfig:"INTERVAL_SECONDS" default:"3600"`
}

// StreamProxyEnv holds environment configuration for the stream proxy.
type StreamProxyEnv struct {
	// UpstreamURL is the upstream stream endpoint.
	// Env: STREAM_PROXY_UPSTREAM_URL
	UpstreamURL string `envconfig:"UPSTREAM_URL"`

	// AuthToken is the bearer token injected into proxied requests.
	// Env: STREAM_PROXY_AUTH_TOKEN
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{
		WithHost(e.Host),
		WithPort(e.Port),
		WithLogLevel(e.LogLevel),
		WithLogFormat(parseLogFormat(e.LogFormat)),
		WithSearchLimit(e.SearchLimit),
		WithRegistryConfig(e.Registry.ToRegistryConfig()),
		WithEmbeddingEndpoint(e.OpenAI.ToEndpoint()),
		WithPeriodicSyncConfig(e.Sync.ToPeriodicSyncConfig()),
	}

	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.CronSecret != "" {
		opts = append(opts, WithCronSecret(e.CronSecret))
	}
	if e.APIKeys != "" {
		opts = append(opts, WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.StreamProxy.UpstreamURL != "" {
		opts = append(opts, WithStreamProxyConfig(
			NewStreamProxyConfig().
				WithUpstreamURL(e.StreamProxy.UpstreamURL).
				WithAuthToken(e.StreamProxy.AuthToken),
		))
	}

	return NewAppConfigWithOptions(opts...)
}

// ToRegistryConfig converts RegistryEnv to RegistryConfig.
func (r RegistryEnv) ToRegistryConfig() RegistryConfig {
	return NewRegistryConfig().
		WithRegistryBaseURL(r.URL).
		WithRegistryPageSize(r.PageSize).
		WithRegistryTimeout(time.Duration(r.Timeout * float64(time.Second)))
}

// ToEndpoint converts OpenAIEnv to Endpoint.
func (o OpenAIEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithModel(o.Model),
		WithDimension(o.Dimension),
		WithTimeout(time.Duration(o.Timeout * float64(time.Second))),
		WithMaxRetries(o.MaxRetries),
		WithInitialDelay(time.Duration(o.InitialDelay * float64(time.Second))),
		WithBackoffFactor(o.BackoffFactor),
		WithNumParallelTasks(o.NumParallelTasks),
	}

	if o.APIKey != "" {
		opts = append(opts, WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		opts = append(opts, WithBaseURL(o.BaseURL))
	}

	return NewEndpointWithOptions(opts...)
}

// ToPeriodicSyncConfig converts SyncEnv to PeriodicSyncConfig.
func (s SyncEnv) ToPeriodicSyncConfig() PeriodicSyncConfig {
	return NewPeriodicSyncConfig().
		WithEnabled(s.Enabled).
		WithIntervalSeconds(s.IntervalSeconds)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
