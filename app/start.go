package app

import (
	"github.com/spf13/cobra"

	"github.com/jesite/jesite/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	devMode      bool
	browseStatic bool

	startCmd = &cobra.Command{
		Use:     "start",
		Short:   "Start the jesite web service",
		PreRunE: loadConfig,
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return d.Start() //nolint:wrapcheck
		},
	}
)
