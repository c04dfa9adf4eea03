package main

import (
	"fmt"

	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vibhusapra/phoenix/internal/bootstrap"
	"github.com/vibhusapra/phoenix/internal/config"
	dbpkg "github.com/vibhusapra/phoenix/internal/infra/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply SQL migrations to PostgreSQL",
	Long: `Apply the embedded SQL migrations to the configured PostgreSQL database.
SQLite databases are created with database.autoMigrate instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()

		cfg, err := do.Invoke[*config.Config](inj)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Database.Driver != dbpkg.DriverPostgres {
			return fmt.Errorf("migrate supports %q only, got %q", dbpkg.DriverPostgres, cfg.Database.Driver)
		}

		log := do.MustInvoke[*zap.Logger](inj)
		defer func() { _ = log.Sync() }()

		db, err := do.Invoke[*gorm.DB](inj)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return dbpkg.Migrate(db, log)
	},
}
