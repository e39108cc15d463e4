package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/reelhub/reelhub/cmd/reelctl/cmd"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "reelctl",
		Short:        "Operator tools for reelhub",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.ConfigCmd(os.Getenv))
	rootCmd.AddCommand(cmd.MigrateCmd(os.Getenv))
	rootCmd.AddCommand(cmd.TokenCmd(os.Getenv))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
