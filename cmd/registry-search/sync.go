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
	"github.com/lastmile-ai/mcp-registry-search/internal/log"
)

func syncCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a one-shot catalog sync",
		Long: `Fetch the upstream MCP registry catalog and update the local index.

Embeddings are computed for new and changed servers; servers that have
disappeared from the catalog are tombstoned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runSync(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	client, err := registrysearch.New(clientOptions(cfg, slogger)...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close client", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := client.Sync.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("sync finished in %s\n", summary.Duration().Round(time.Millisecond))
	fmt.Printf("  inserted:   %d\n", summary.Inserted())
	fmt.Printf("  updated:    %d\n", summary.Updated())
	fmt.Printf("  unchanged:  %d\n", summary.Unchanged())
	fmt.Printf("  failed:     %d\n", summary.Failed())
	fmt.Printf("  tombstoned: %d\n", summary.Tombstoned())
	if !summary.Complete() {
		fmt.Println("  listing was incomplete; removals were not applied")
	}

	return nil
}
