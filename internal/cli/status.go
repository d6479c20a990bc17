package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	httpx "github.com/target/clinic-portal/internal/http"
)

func newStatusCmd(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			view := httpx.NewSessionView(app.Sessions.Snapshot())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			if !view.Authenticated {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}
			fmt.Fprintf(out, "Logged in\n")
			fmt.Fprintf(out, "  Role:    %s\n", view.Role)
			fmt.Fprintf(out, "  Home:    %s\n", view.Home)
			fmt.Fprintf(out, "  Storage: %s\n", app.Storage.Backend)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	return cmd
}
