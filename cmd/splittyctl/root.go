package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/splitty/internal/config"
	"github.com/MrJamesThe3rd/splitty/internal/database"
)

var rootCmd = &cobra.Command{
	Use:          "splittyctl",
	Short:        "Splitty administration CLI",
	Long:         "Run migrations, print home reports and settle expense spreadsheets offline.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, reportCmd, settleCmd)
}

// openDB loads the config and connects the same way the API does.
func openDB() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	return db, nil
}
