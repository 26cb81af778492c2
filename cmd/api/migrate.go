package main

import (
	"database/sql"
	"fmt"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.DBConn == "" {
			return fmt.Errorf("DB_CONN is required for migrate")
		}
		logger := newLogger(cfg.LogLevel)

		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := repository.NewPostgres(db).Migrate(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Schema applied")
		return nil
	},
}
