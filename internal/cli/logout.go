package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			if err := app.Auth.Logout(cmd.Context()); err != nil {
				// The in-process session is already cleared.
				app.Logger.WarnContext(cmd.Context(), "failed to remove stored session", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
