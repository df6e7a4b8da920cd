package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	registrysearch "github.com/lastmile-ai/mcp-registry-search"
	"github.com/lastmile-ai/mcp-registry-search/internal/log"
	"github.com/lastmile-ai/mcp-registry-search/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants search the MCP registry directly.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol, so log to stderr
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server",
		slog.String("version", version),
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

	mcpServer := mcp.NewServer(client.Search, client.Servers, version, slogger)

	return mcpServer.ServeStdio()
}
