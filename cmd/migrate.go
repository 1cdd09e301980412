package cmd

import (
	"fmt"

	"github.com/bwilly/SuperSliceETL/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or upgrades the isolated and unified tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(cmd.Context()); err != nil {
			return err
		}

		log.Info("migration complete", zap.String("driver", cfg.Database.Driver))
		fmt.Println("✓ Tables slice_trax, square_trax, uber_trax and unified_trax are up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
