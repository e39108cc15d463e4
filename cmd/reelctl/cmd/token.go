package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/reelhub/reelhub/internal/app"
	"github.com/reelhub/reelhub/internal/config"
	"github.com/spf13/cobra"
)

// TokenCmd mints a session token for an existing user, for API debugging.
func TokenCmd(getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a session token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Parse(getenv)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.UserService.ByID(ctx, args[0])
			if err != nil {
				return err
			}

			session, err := a.AuthService.IssueSession(user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, session.Token)
			fmt.Fprintf(out, "expires %s\n", session.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
}
