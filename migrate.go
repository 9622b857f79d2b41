package main

import (
	"github.com/autoerp/server/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed default lookup rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			gdb, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("migration complete", zap.String("mode", cfg.Database.Mode))
			return db.Close(gdb)
		},
	}
}
