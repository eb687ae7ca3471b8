package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/logger"
	"github.com/uninorte/feria-gamer/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFrom(configFile)
		if err != nil {
			return err
		}
		logger.Init(cfg.Log.Format, cfg.Log.Level)

		if _, err := server.Open(cfg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	},
}
