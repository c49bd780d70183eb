package cmd

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/medtrack/internal/config"
	"github.com/templui/medtrack/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back, or inspect database migrations",
	}

	cmd.AddCommand(
		migrateRunCmd("up", "Apply all pending migrations", db.RunMigrations),
		migrateRunCmd("down", "Roll back the most recent migration", db.MigrateDown),
		migrateRunCmd("status", "Print the status of every migration", db.MigrationStatus),
	)
	return cmd
}

func migrateRunCmd(use, short string, run func(*sql.DB, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()

			err = run(database.DB, cfg.DBDriver)
			if err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			fmt.Printf("migrate %s: done (%s)\n", use, cfg.DBDriver)
			return nil
		},
	}
}
