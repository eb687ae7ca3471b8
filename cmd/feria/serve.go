package main

import (
	"github.com/spf13/cobra"
	"github.com/uninorte/feria-gamer/internal/server"
)

var (
	servePort int
	serveMode string
)

// @title Feria Gamer API
// @version 0.2
// @description The Feria Gamer API description
// @host localhost:3000
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and mail worker",
	Long: `Start the Feria Gamer server with API and/or worker components.

Examples:
  feria serve                    # Run both API server and worker
  feria serve --mode server      # Run API server only
  feria serve --mode worker      # Run mail worker only
  feria serve --port 8080        # Override port

Environment variables:
  FERIA_SERVER_PORT         Server port (default: 3000)
  FERIA_DATABASE_DRIVER     Database driver: sqlite, postgres
  FERIA_DATABASE_DSN        Database connection string
  FERIA_QUEUE_TYPE          Queue type: memory, valkey
  FERIA_AUTH_JWT_SECRET     JWT signing secret
  FERIA_MAIL_DRIVER         Mail driver: log, smtp
  ADMIN_EMAIL               Bootstrap admin email
  ADMIN_PASSWORD            Bootstrap admin password
  ADMIN_NAME                Bootstrap admin full name`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunWithSignalHandling(server.Config{
			Port:       servePort,
			Mode:       serveMode,
			Version:    Version,
			ConfigFile: configFile,
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", "both", "Run mode: server, worker, or both")
}
