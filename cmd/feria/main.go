package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

// configFile is shared by every subcommand that reads configuration
var configFile string

var rootCmd = &cobra.Command{
	Use:   "feria",
	Short: "Feria Gamer - event management API for the Uninorte gaming fair",
	Long: `Feria Gamer serves the REST API used to run the gaming fair: staff
accounts, courses, video games, teams, students and invitation mail.`,
	Example: `  # Run API server and mail worker
  feria serve

  # Create the first administrator
  feria admin create --email admin@uninorte.edu.co --name "Admin" --password s3cret`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./config.yaml or /etc/feria/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
