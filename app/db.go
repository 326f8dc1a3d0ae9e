package app

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jesite/jesite/internal/daemon"
	"github.com/jesite/jesite/internal/db/controller/role"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateRolesCmd, seedCmd)
}

var (
	migrateRolesCmd = &cobra.Command{
		Use:     "migrate-roles",
		Short:   "Move users without a role onto the admin role",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := daemon.Open(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			report, err := role.MigrateRoles(cmd.Context(), conn)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:     "seed",
		Short:   "Create the default roles, admin account and content in an empty database",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := daemon.Open(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			seeded, err := daemon.Seed(cmd.Context(), &cfg, conn)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if !seeded {
				log.Info().Msg("database already holds users, nothing seeded")
			}

			return nil
		},
	}
)
