package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	catalogsync "catalog-sync/feature/sync"

	"github.com/spf13/cobra"
)

// statusCmd prints the persisted sync status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted sync status and cursor",
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

		st, err := catalogsync.NewGormStateStore(db).Load(ctx)
		if err != nil {
			return err
		}

		cursor := st.Cursor()
		if cursor.PageSize <= 0 {
			cursor.PageSize = cfg.Sync.PageSize
		}

		fmt.Println("\n--- Catalog Sync Status ---")
		fmt.Printf("Status:      %s\n", st.Status)
		fmt.Printf("Run ID:      %s\n", st.RunID)
		fmt.Printf("Cursor:      offset=%d page_size=%d\n", cursor.Offset, cursor.PageSize)
		if st.StartedAt != nil {
			fmt.Printf("Started:     %s\n", st.StartedAt.Format("2006-01-02 15:04:05 MST"))
		}
		if st.FinishedAt != nil {
			fmt.Printf("Finished:    %s\n", st.FinishedAt.Format("2006-01-02 15:04:05 MST"))
		}
		if st.LastError != "" {
			fmt.Printf("Last error:  \033[31m%s\033[0m\n", st.LastError)
		}
		fmt.Println("---------------------------")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}
