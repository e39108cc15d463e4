package cmd

import (
	"fmt"

	"github.com/reelhub/reelhub/internal/config"
	"github.com/spf13/cobra"
)

func ConfigCmd(getenv func(string) string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the environment without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(getenv)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "env:      %s\n", cfg.AppEnv)
			fmt.Fprintf(out, "database: %s\n", cfg.DBDriver)
			fmt.Fprintf(out, "google:   %t\n", cfg.GoogleEnabled())
			fmt.Fprintf(out, "s3:       %t\n", cfg.S3Enabled())
			fmt.Fprintln(out, "configuration ok")
			return nil
		},
	})

	return cmd
}
