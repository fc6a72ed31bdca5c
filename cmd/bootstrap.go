package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// bootstrapCmd prepares the database schema and the snapshot bucket.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create database tables and the snapshot bucket",
	Long:  `Runs the schema migrations and, when object storage is enabled, creates the snapshot bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
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
		l.Info("Database schema ready", zap.String("driver", cfg.Database.Driver))

		if !cfg.Storage.Enabled {
			l.Info("Object storage disabled, skipping bucket setup")
			return nil
		}
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
			return err
		}
		l.Info("Snapshot bucket ready", zap.String("bucket", cfg.Storage.Bucket))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(bootstrapCmd)
}
