// Command apptracker runs the application tracker API and its maintenance
// tasks.
//
// Usage:
//
//	apptracker serve
//	apptracker migrate up|down|status
//	apptracker token --user-id 1 --role admin
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/apptracker/internal/app"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "apptracker",
	Short: "Application tracker API server",
	Long: `apptracker serves the activity feed, handover documents and user
stories of tracked applications, and runs database migrations.

Configuration is read from --config, CONFIG_PATH or ./config.yaml, with
environment variables taking precedence over the file.`,
	Version:      app.BuildVersion(),
	SilenceUsage: true,
}

// configPath is the --config flag shared by all subcommands.
var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}
