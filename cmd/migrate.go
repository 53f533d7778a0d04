package cmd

import (
	"parking_enforcement/internal/repository/postgresql"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and RPC functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := postgresql.NewDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgresql.Migrate(cmd.Context(), db, logger); err != nil {
			return err
		}
		logger.Info("database schema is up to date")
		return nil
	},
}
