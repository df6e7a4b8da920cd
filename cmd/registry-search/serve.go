package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/infrastructure/api"
	"github.com/lastmile-ai/mcp-registry-search/internal/config"
	"github.com/lastmile-ai/mcp-registry-search/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                         Server host to bind to (default: 0.0.0.0)
  PORT                         Server port to listen on (default: 8080)
  DB_URL                       Database URL (default: sqlite:///registry-search.db)
  LOG_LEVEL                    Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                   Log format: pretty, json (default: pretty)
  SEARCH_LIMIT                 Default search result limit (default: 10)
  CRON_SECRET                  Bearer secret for the sync trigger endpoint
  API_KEYS                     Comma-separated list of valid API keys

  REGISTRY_URL                 Upstream MCP registry URL
  REGISTRY_PAGE_SIZE           Catalog listing page size (default: 100)
  REGISTRY_TIMEOUT             Per-request timeout in seconds (default: 30)

  OPENAI_API_KEY               OpenAI API key for embeddings
  OPENAI_BASE_URL              OpenAI-compatible base URL
  OPENAI_MODEL                 Embedding model (default: text-embedding-3-small)
  OPENAI_DIMENSION             Embedding dimension (default: 1536)
  OPENAI_NUM_PARALLEL_TASKS    Concurrent embedding requests (default: 8)

  SYNC_ENABLED                 Enable periodic catalog sync (default: true)
  SYNC_INTERVAL_SECONDS        Sync interval (default: 3600)

  STREAM_PROXY_UPSTREAM_URL    Upstream SSE endpoint for the /stream proxy
  STREAM_PROXY_AUTH_TOKEN      Bearer token injected into proxied requests`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	slogger.Info("starting registry-search",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
	)

	client, err := registrysearch.New(clientOptions(cfg, slogger)...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	// Background catalog sync
	syncCtx, cancelSync := context.WithCancel(context.Background())
	defer cancelSync()
	client.StartPeriodicSync(syncCtx)

	apiServer := api.NewAPIServer(client)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancelSync()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
