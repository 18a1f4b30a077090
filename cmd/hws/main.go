package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/hws"
)

// version is set at build time via ldflags.
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hws",
	Short: "Serve and edit the How We Screen landing page",
	Long: `hws serves the How We Screen landing page and its owner-only inline
editor. Edits are stored as overrides in a SQLite database; the commands
below export, import and reset them without starting the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", hws.EnvOr("HWS_CONFIG", "hws.yaml"), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (hws.SiteConfig, error) {
	cfg, err := hws.LoadConfig(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openApp loads the config and opens the store and editor session without
// serving. The caller must Close the app so pending edits are flushed.
func openApp() (*hws.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app := hws.New(cfg)
	if err := app.Open(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}
