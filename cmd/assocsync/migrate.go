package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnwards/assocsync/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.DBPath, 0)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		if err := database.Migrate(cmd.Context(), db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		version, err := database.Version(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		slog.Info("database migrated", "path", cfg.DBPath, "version", version)
		return nil
	},
}
