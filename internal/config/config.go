// Package config provides application configuration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                 = "0.0.0.0"
	DefaultPort                 = 8080
	DefaultLogLevel             = "INFO"
	DefaultSearchLimit          = 10
	DefaultRegistryURL          = "https://registry.modelcontextprotocol.io"
	DefaultRegistryPageSize     = 100
	DefaultRegistryTimeout      = 30 * time.Second
	DefaultEmbeddingModel       = "text-embedding-3-small"
	DefaultEmbeddingDimension   = 1536
	DefaultEmbeddingTimeout     = 60 * time.Second
	DefaultEmbeddingMaxRetries  = 5
	DefaultEmbeddingDelay       = 2 * time.Second
	DefaultEmbeddingBackoff     = 2.0
	DefaultEmbeddingParallelism = 8
	DefaultSyncInterval         = 3600.0 // seconds
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// RegistryConfig configures the upstream catalog endpoint.
type RegistryConfig struct {
	baseURL  string
	pageSize int
	timeout  time.Duration
}

// NewRegistryConfig creates a RegistryConfig with defaults.
func NewRegistryConfig() RegistryConfig {
	return RegistryConfig{
		baseURL:  DefaultRegistryURL,
		pageSize: DefaultRegistryPageSize,
		timeout:  DefaultRegistryTimeout,
	}
}

// BaseURL returns the catalog base URL.
func (r RegistryConfig) BaseURL() string { return r.baseURL }

// PageSize returns the page size used when listing the catalog.
func (r RegistryConfig) PageSize() int { return r.pageSize }

// Timeout returns the per-request timeout.
func (r RegistryConfig) Timeout() time.Duration { return r.timeout }

// WithRegistryBaseURL returns a new config with the specified base URL.
func (r RegistryConfig) WithRegistryBaseURL(url string) RegistryConfig {
	r.baseURL = strings.TrimRight(url, "/")
	return r
}

// WithRegistryPageSize returns a new config with the specified page size.
func (r RegistryConfig) WithRegistryPageSize(n int) RegistryConfig {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// WithRegistryTimeout returns a new config with the specified timeout.
func (r RegistryConfig) WithRegistryTimeout(d time.Duration) RegistryConfig {
	r.timeout = d
	return r
}

// Endpoint configures the embedding AI service.
type Endpoint struct {
	baseURL          string
	model            string
	apiKey           string
	dimension        int
	timeout          time.Duration
	maxRetries       int
	initialDelay     time.Duration
	backoffFactor    float64
	numParallelTasks int
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		model:            DefaultEmbeddingModel,
		dimension:        DefaultEmbeddingDimension,
		timeout:          DefaultEmbeddingTimeout,
		maxRetries:       DefaultEmbeddingMaxRetries,
		initialDelay:     DefaultEmbeddingDelay,
		backoffFactor:    DefaultEmbeddingBackoff,
		numParallelTasks: DefaultEmbeddingParallelism,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Dimension returns the embedding vector dimension.
func (e Endpoint) Dimension() int { return e.dimension }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// NumParallelTasks returns the number of concurrent embedding calls.
func (e Endpoint) NumParallelTasks() int { return e.numParallelTasks }

// IsConfigured returns true if the endpoint has required configuration.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithDimension sets the embedding vector dimension.
func WithDimension(n int) EndpointOption {
	return func(e *Endpoint) {
		if n > 0 {
			e.dimension = n
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) EndpointOption {
	return func(e *Endpoint) { e.backoffFactor = f }
}

// WithNumParallelTasks sets the concurrent embedding call count.
func WithNumParallelTasks(n int) EndpointOption {
	return func(e *Endpoint) {
		if n > 0 {
			e.numParallelTasks = n
		}
	}
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// PeriodicSyncConfig configures periodic catalog syncing.
type PeriodicSyncConfig struct {
	enabled         bool
	intervalSeconds float64
}

// NewPeriodicSyncConfig creates a new PeriodicSyncConfig with defaults.
func NewPeriodicSyncConfig() PeriodicSyncConfig {
	return PeriodicSyncConfig{
		enabled:         true,
		intervalSeconds: DefaultSyncInterval,
	}
}

// Enabled returns whether periodic sync is enabled.
func (p PeriodicSyncConfig) Enabled() bool { return p.enabled }

// Interval returns the sync interval as a duration.
func (p PeriodicSyncConfig) Interval() time.Duration {
	return time.Duration(p.intervalSeconds * float64(time.Second))
}

// WithEnabled returns a new config with the specified enabled state.
func (p PeriodicSyncConfig) WithEnabled(enabled bool) PeriodicSyncConfig {
	p.enabled = enabled
	return p
}

// WithIntervalSeconds returns a new config with the specified interval.
func (p PeriodicSyncConfig) WithIntervalSeconds(seconds float64) PeriodicSyncConfig {
	if seconds > 0 {
		p.intervalSeconds = seconds
	}
	return p
}

// StreamProxyConfig configures the authenticated upstream MCP stream proxy.
type StreamProxyConfig struct {
	upstreamURL string
	authToken   string
}

// NewStreamProxyConfig creates an empty StreamProxyConfig.
func NewStreamProxyConfig() StreamProxyConfig {
	return StreamProxyConfig{}
}

// UpstreamURL returns the upstream stream URL.
func (s StreamProxyConfig) UpstreamURL() string { return s.upstreamURL }

// AuthToken returns the bearer token injected into proxied requests.
func (s StreamProxyConfig) AuthToken() string { return s.authToken }

// IsConfigured returns true if an upstream URL is set.
func (s StreamProxyConfig) IsConfigured() bool { return s.upstreamURL != "" }

// WithUpstreamURL returns a new config with the specified upstream URL.
func (s StreamProxyConfig) WithUpstreamURL(url string) StreamProxyConfig {
	s.upstreamURL = url
	return s
}

// WithAuthToken returns a new config with the specified bearer token.
func (s StreamProxyConfig) WithAuthToken(token string) StreamProxyConfig {
	s.authToken = token
	return s
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	host        string
	port        int
	dbURL       string
	logLevel    string
	logFormat   LogFormat
	searchLimit int
	cronSecret  string
	apiKeys     []string
	registry    RegistryConfig
	embedding   Endpoint
	sync        PeriodicSyncConfig
	streamProxy StreamProxyConfig
}

// NewAppConfig creates an AppConfig with default values.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:        DefaultHost,
		port:        DefaultPort,
		dbURL:       "sqlite:///registry-search.db",
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		searchLimit: DefaultSearchLimit,
		registry:    NewRegistryConfig(),
		embedding:   NewEndpoint(),
		sync:        NewPeriodicSyncConfig(),
		streamProxy: NewStreamProxyConfig(),
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port listen address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// SearchLimit returns the default search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// CronSecret returns the bearer secret protecting the sync trigger endpoint.
func (c AppConfig) CronSecret() string { return c.cronSecret }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	result := make([]string, len(c.apiKeys))
	copy(result, c.apiKeys)
	return result
}

// Registry returns the upstream catalog configuration.
func (c AppConfig) Registry() RegistryConfig { return c.registry }

// Embedding returns the embedding endpoint configuration.
func (c AppConfig) Embedding() Endpoint { return c.embedding }

// PeriodicSync returns the periodic sync configuration.
func (c AppConfig) PeriodicSync() PeriodicSyncConfig { return c.sync }

// StreamProxy returns the stream proxy configuration.
func (c AppConfig) StreamProxy() StreamProxyConfig { return c.streamProxy }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDBURL sets the database connection URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log verbosity level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithSearchLimit sets the default search result limit.
func WithSearchLimit(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithCronSecret sets the sync trigger bearer secret.
func WithCronSecret(secret string) AppConfigOption {
	return func(c *AppConfig) { c.cronSecret = secret }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithRegistryConfig sets the upstream catalog configuration.
func WithRegistryConfig(r RegistryConfig) AppConfigOption {
	return func(c *AppConfig) { c.registry = r }
}

// WithEmbeddingEndpoint sets the embedding endpoint configuration.
func WithEmbeddingEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embedding = e }
}

// WithPeriodicSyncConfig sets the periodic sync configuration.
func WithPeriodicSyncConfig(p PeriodicSyncConfig) AppConfigOption {
	return func(c *AppConfig) { c.sync = p }
}

// WithStreamProxyConfig sets the stream proxy configuration.
func WithStreamProxyConfig(s StreamProxyConfig) AppConfigOption {
	return func(c *AppConfig) { c.streamProxy = s }
}

// NewAppConfigWithOptions creates an AppConfig with functional options applied.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	cfg := NewAppConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ParseAPIKeys splits a comma-separated API key list, trimming whitespace
// and dropping empty entries.
func ParseAPIKeys(s string) []string {
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
