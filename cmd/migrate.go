/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/welcomedesk/userservice/internal/db"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, db.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(cmd, db.Down)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func runMigrations(cmd *cobra.Command, dir db.Direction) error {
	cfg, logger := loadConfig()

	conn, err := db.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.Migrate(cmd.Context(), conn, cfg.Database.Driver, dir); err != nil {
		return err
	}
	logger.Info("migrations applied", "driver", cfg.Database.Driver, "direction", cmd.Name())
	return nil
}
