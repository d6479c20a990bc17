package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/target/clinic-portal/internal/bootstrap"
)

func newServeCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the role-gated dashboards locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				g.cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			app, err := g.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, app)

			app.Logger.InfoContext(ctx, "starting clinic portal",
				"api", app.Config.API.BaseURL,
				"storage", app.Storage.Backend.String(),
				"authenticated", app.Sessions.Snapshot().IsAuthenticated(),
			)

			return bootstrap.Serve(ctx, bootstrap.ServeOptions{
				Addr:            g.cfg.HTTP.Addr,
				Handler:         app.Handler(),
				ShutdownTimeout: g.cfg.HTTP.ShutdownTimeout,
				Logger:          app.Logger,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (or HTTP_ADDR env)")
	return cmd
}
