package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/logger"
)

var version = "0.1.0"

var cfg *common.Config

var rootCmd = &cobra.Command{
	Use:     "billbook",
	Short:   "Billbook - bill extraction, GST invoicing and ledger service",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg = common.LoadConfig()
		return logger.Setup(logger.LogConfig{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: "stdout",
		})
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, dbhealthCmd, sessionCmd, planCmd, extractCmd)
}
