// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/logger"
)

var (
	configPath string // Path to the configuration directory

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "jesite",
		Short: "jesite runs the website and back office of a Junior Enterprise",
		Long: `jesite serves the public website of a Junior Enterprise together with its
back office, where members edit the content, read contact requests, send the newsletter
and manage users, roles and the sections each role may open.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding "+config.FileName)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
	}

	if browseStatic {
		cfg.Webserver.BrowseStatic = true
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
