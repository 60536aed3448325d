package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kz-league/backend/internal/config"
	"github.com/kz-league/backend/internal/db"
	"github.com/kz-league/backend/internal/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every domain table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

		gormDB, err := db.NewGormDB(cfg, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() { _ = db.Close(gormDB, log) }()

		if err := db.AutoMigrate(gormDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		log.Info().Msg("migration complete")
		return nil
	},
}

func init() {
	migrateCmd.SilenceUsage = true
}
