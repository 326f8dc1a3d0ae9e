package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesite/jesite/internal/config"
)

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print json instead of toml")

	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err //nolint:wrapcheck
			}

			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			out, err := dump(&c)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintln(cmd.OutOrStdout(), out)

			return nil
		},
	}
)
