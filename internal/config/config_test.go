package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, DefaultHost, cfg.Host())
	assert.Equal(t, DefaultPort, cfg.Port())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultSearchLimit, cfg.SearchLimit())
	assert.Equal(t, DefaultRegistryURL, cfg.Registry().BaseURL())
	assert.Equal(t, DefaultEmbeddingDimension, cfg.Embedding().Dimension())
	assert.True(t, cfg.PeriodicSync().Enabled())
}

func TestAppConfig_Apply(t *testing.T) {
	cfg := NewAppConfig()

	updated := cfg.Apply(WithHost("127.0.0.1"), WithPort(9090))
	assert.Equal(t, "127.0.0.1:9090", updated.Addr())
	assert.Equal(t, DefaultHost, cfg.Host(), "Apply must not mutate the receiver")
}

func TestEndpoint_IsConfigured(t *testing.T) {
	assert.False(t, NewEndpoint().IsConfigured())
	assert.True(t, NewEndpointWithOptions(WithAPIKey("sk-test")).IsConfigured())
}

func TestPeriodicSyncConfig_Interval(t *testing.T) {
	cfg := NewPeriodicSyncConfig().WithIntervalSeconds(90)
	assert.Equal(t, 90*time.Second, cfg.Interval())

	// Non-positive intervals fall back to the default.
	fallback := NewPeriodicSyncConfig().WithIntervalSeconds(0)
	assert.Equal(t, time.Duration(DefaultSyncInterval)*time.Second, fallback.Interval())
}

func TestParseAPIKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseAPIKeys("a, b"))
	assert.Equal(t, []string{"solo"}, ParseAPIKeys("solo"))
	assert.Empty(t, ParseAPIKeys(" , ,"))
}

func TestEnvConfig_ToAppConfig(t *testing.T) {
	env := EnvConfig{
		Host:        "10.0.0.1",
		Port:        9999,
		DBURL:       "postgresql://u:p@db/app",
		LogLevel:    "DEBUG",
		LogFormat:   "json",
		SearchLimit: 25,
		CronSecret:  "hush",
		APIKeys:     "k1,k2",
		Registry: RegistryEnv{
			URL:      "https://registry.example.com",
			PageSize: 50,
			Timeout:  15,
		},
		OpenAI: OpenAIEnv{
			APIKey:    "sk-test",
			Model:     "text-embedding-3-small",
			Dimension: 256,
			Timeout:   30,
		},
		Sync: SyncEnv{Enabled: false, IntervalSeconds: 600},
		StreamProxy: StreamProxyEnv{
			UpstreamURL: "https://upstream.example.com/stream",
			AuthToken:   "token",
		},
	}

	cfg := env.ToAppConfig()

	assert.Equal(t, "10.0.0.1:9999", cfg.Addr())
	assert.Equal(t, "postgresql://u:p@db/app", cfg.DBURL())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, 25, cfg.SearchLimit())
	assert.Equal(t, "hush", cfg.CronSecret())
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys())

	assert.Equal(t, "https://registry.example.com", cfg.Registry().BaseURL())
	assert.Equal(t, 50, cfg.Registry().PageSize())
	assert.Equal(t, 15*time.Second, cfg.Registry().Timeout())

	require.True(t, cfg.Embedding().IsConfigured())
	assert.Equal(t, 256, cfg.Embedding().Dimension())

	assert.False(t, cfg.PeriodicSync().Enabled())
	assert.Equal(t, 10*time.Minute, cfg.PeriodicSync().Interval())

	require.True(t, cfg.StreamProxy().IsConfigured())
	assert.Equal(t, "token", cfg.StreamProxy().AuthToken())
}

func TestEnvConfig_DefaultDBURL(t *testing.T) {
	cfg := EnvConfig{Host: "h", Port: 1}.ToAppConfig()
	assert.Equal(t, "sqlite:///registry-search.db", cfg.DBURL())
}
