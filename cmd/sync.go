package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	catalogsync "catalog-sync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncMode string

// syncCmd runs one sync page. It is the entry point for cron schedules.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one catalog sync page",
	Long: `Fetches the page at the persisted cursor, upserts it, removes stale products
and advances the cursor. Prints the run summary as JSON.

Examples:
  # Full run (create, update, reconcile)
  sync

  # Refresh descriptions of products already stored
  sync --mode descriptions`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMode, "mode", string(catalogsync.ModeFull), "Run mode: full or descriptions")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode, err := catalogsync.ParseMode(syncMode)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		return err
	}

	// No listing cache lives in this process.
	orch := newOrchestrator(cfg, db, newStorage(ctx, cfg, l), nil, l)

	res, runErr := orch.RunSync(ctx, mode)
	if res != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			l.Warn("Failed to print result", zap.Error(err))
		}
	}
	if runErr != nil {
		return fmt.Errorf("sync run failed: %w", runErr)
	}
	return nil
}
