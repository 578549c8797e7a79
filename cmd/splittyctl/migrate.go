package main

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/splitty/internal/database"
)

var flagSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply all pending schema migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return database.Migrate(db)
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent schema migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return database.Rollback(db, flagSteps)
	},
}

func init() {
	rollbackCmd.Flags().IntVar(&flagSteps, "steps", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(rollbackCmd)
}
