package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/lastmile-backend-go/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(database.Config{Path: cfg.Database.Path})
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := database.NewMigrationManager(db, logger).RunMigrations()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s\n", applied, cfg.Database.Path)
		return nil
	},
}
