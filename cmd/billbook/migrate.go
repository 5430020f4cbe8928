package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/billbook/internal/logger"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := logger.WithComponent("migrate")
		db, pool, err := server.ConnectDB(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer server.CloseDB(db, pool, log)

		if err := repository.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("migration complete")
		return nil
	},
}
