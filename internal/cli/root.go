// Package cli implements the clinic-portal command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/target/clinic-portal/config"
	"github.com/target/clinic-portal/internal/bootstrap"
)

// globals holds state resolved once by the root command before any subcommand runs.
type globals struct {
	api       string
	storage   string
	logLevel  string
	logFormat string

	cfg    config.AppConfig
	logger *slog.Logger
}

// NewRootCmd creates the root cobra command for the clinic-portal CLI.
func NewRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "clinic-portal",
		Short: "Clinic portal session client",
		Long:  "clinic-portal signs in to the clinic API, keeps the session, and serves role-gated dashboards.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.resolve(cmd)
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.api, "api", "", "Clinic API base URL (or API_BASE_URL env)")
	flags.StringVar(&g.storage, "storage", "", "Session storage backend: file, redis, sqlite, postgres, memory (or STORAGE_BACKEND env)")
	flags.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newServeCmd(g),
		newLoginCmd(g),
		newLogoutCmd(g),
		newStatusCmd(g),
		newRouteCmd(g),
	)
	return root
}

// resolve loads env configuration and applies flag overrides.
func (g *globals) resolve(cmd *cobra.Command) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.API.BaseURL = g.api
	}
	if flags.Changed("storage") {
		backend, err := config.ParseStorageBackend(g.storage)
		if err != nil {
			return err
		}
		cfg.Storage.Backend = backend
	}
	if flags.Changed("log-level") {
		cfg.Observability.LogLevel = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Observability.LogFormat = g.logFormat
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	g.cfg = cfg
	g.logger = bootstrap.NewLogger(cmd.ErrOrStderr(), cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	slog.SetDefault(g.logger)
	return nil
}

// openApp builds the application root for one command. The caller closes it.
func (g *globals) openApp(cmd *cobra.Command) (*bootstrap.App, error) {
	return bootstrap.NewApp(cmd.Context(), bootstrap.AppOptions{Config: g.cfg, Logger: g.logger})
}

func closeApp(cmd *cobra.Command, app *bootstrap.App) {
	if err := app.Close(); err != nil {
		app.Logger.WarnContext(cmd.Context(), "close storage failed", "error", err)
	}
}
