package main

import (
	"github.com/spf13/cobra"

	"github.com/d60-Lab/contact-desk/pkg/database"
	"github.com/d60-Lab/contact-desk/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the contacts table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := database.InitDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}
}
