package cmd

import (
	"context"
	"fmt"
	"sort"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var integrityFix bool

// integrityCmd checks the database schema and snapshot storage.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check database schema and snapshot storage",
	Long:  `Verifies that the sync tables exist with every column and that the snapshot bucket is in place. With --fix, migrates the schema and creates the bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		svc := integrity.NewService(newStorage(ctx, cfg, logg), cfg.Storage.Bucket, cfg.Catalog.SnapshotPrefix, db, logg)

		schema, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if !schema.Matched && integrityFix {
			logg.Info("Migrating schema")
			if err := svc.FixSchema(); err != nil {
				return fmt.Errorf("failed to fix schema: %w", err)
			}
			if schema, err = svc.CheckSchema(); err != nil {
				return fmt.Errorf("schema check failed: %w", err)
			}
		}

		snapshots, err := svc.CheckSnapshots(ctx)
		if err != nil {
			logg.Warn("Snapshot check failed", zap.Error(err))
		}
		if snapshots != nil && snapshots.Enabled && !snapshots.BucketExists && integrityFix {
			if err := svc.FixSnapshots(ctx); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
			snapshots.BucketExists = true
		}

		tables := make([]string, 0, len(schema.Tables))
		for name := range schema.Tables {
			tables = append(tables, name)
		}
		sort.Strings(tables)

		fmt.Println("\n=== Integrity Report ===")
		fmt.Printf("Driver:           %s\n", schema.Driver)
		for _, name := range tables {
			tbl := schema.Tables[name]
			fmt.Printf("Table %-11s %s", name+":", tbl.Status)
			if len(tbl.MissingColumns) > 0 {
				fmt.Printf(" (missing: %v)", tbl.MissingColumns)
			}
			fmt.Println()
		}
		for _, e := range schema.Errors {
			fmt.Printf("- %s\n", e)
		}
		if snapshots != nil {
			fmt.Printf("Snapshots:        enabled=%v bucket=%v first_page=%v\n",
				snapshots.Enabled, snapshots.BucketExists, snapshots.FirstPage)
		}
		fmt.Println("========================")

		if !schema.Matched {
			return fmt.Errorf("schema does not match, rerun with --fix")
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&integrityFix, "fix", false, "Migrate the schema and create the snapshot bucket")
	RootCmd.AddCommand(integrityCmd)
}
