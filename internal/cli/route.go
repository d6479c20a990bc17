package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRouteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Print the access decision for a path with the stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			d := app.Table.Evaluate(app.Sessions.Snapshot(), args[0])
			if d.Admitted() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: admit\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: redirect %s (%s)\n", args[0], d.Target, d.Reason)
			return nil
		},
	}
}
