package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/db/gormdb"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the relational schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DBDriver == config.DriverMemory || cfg.DBDriver == "" {
				return fmt.Errorf("DB_DRIVER is %q; nothing to migrate", config.DriverMemory)
			}
			db, err := gormdb.Open(cfg.DBDriver, cfg.DBDSN, logger)
			if err != nil {
				return err
			}
			defer gormdb.Close(db)
			if err := gormdb.Migrate(db); err != nil {
				return err
			}
			logger.Info("schema migrated", "driver", cfg.DBDriver)
			return nil
		},
	}
}
