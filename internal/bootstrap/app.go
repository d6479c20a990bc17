// Package bootstrap wires configuration, storage, the session, and the
// services into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/clinic-portal/config"
	"github.com/target/clinic-portal/internal/adapters/authtransport"
	"github.com/target/clinic-portal/internal/adapters/clinicapi"
	"github.com/target/clinic-portal/internal/adapters/tokencodec"
	"github.com/target/clinic-portal/internal/domain/access"
	httpx "github.com/target/clinic-portal/internal/http"
	"github.com/target/clinic-portal/internal/service"
	"github.com/target/clinic-portal/internal/session"
)

// AppOptions configures NewApp.
type AppOptions struct {
	Config config.AppConfig
	Logger *slog.Logger
	// Storage overrides the configured backend. It is not closed by App.Close.
	Storage *Storage
	// Transport overrides the base round tripper beneath the authenticating transport.
	Transport http.RoundTripper
}

// App is the application root. It owns the single session store that every
// component shares.
type App struct {
	Config     config.AppConfig
	Logger     *slog.Logger
	Storage    *Storage
	Sessions   *session.Store
	API        *clinicapi.Client
	Auth       *service.AuthService
	Dashboards *service.DashboardService
	Table      *access.Table

	ownsStorage bool
}

// NewApp connects storage, restores the persisted session, and builds the services.
func NewApp(ctx context.Context, opts AppOptions) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config

	app := &App{Config: cfg, Logger: logger, Storage: opts.Storage, Table: access.DefaultTable()}
	if app.Storage == nil {
		st, err := BuildCredentialStorage(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("credential storage: %w", err)
		}
		app.Storage = st
		app.ownsStorage = true
	}

	if err := app.wire(ctx, opts.Transport); err != nil {
		return nil, errors.Join(err, app.Close())
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, base http.RoundTripper) error {
	decoder := tokencodec.Codec{}

	a.Sessions = session.NewStore(session.StoreOptions{
		Storage: a.Storage.Credentials,
		Decoder: decoder,
		Logger:  a.Logger,
	})
	if err := a.Sessions.Restore(ctx); err != nil {
		// Start signed out rather than refusing to start.
		a.Logger.WarnContext(ctx, "failed to restore session", "error", err)
	}

	messages, err := clinicapi.NewMessageExtractor(a.Config.API.ErrorMessagePath)
	if err != nil {
		return fmt.Errorf("error message path: %w", err)
	}

	transport := &authtransport.Transport{
		Base:     base,
		Sessions: a.Sessions,
		Storage:  a.Storage.Credentials,
		Logger:   a.Logger,
	}
	a.API, err = clinicapi.NewClient(clinicapi.ClientOptions{
		BaseURL:    a.Config.API.BaseURL,
		HTTPClient: authtransport.NewClient(transport, a.Config.API.Timeout),
		Messages:   messages,
		Logger:     a.Logger,
	})
	if err != nil {
		return fmt.Errorf("clinic api client: %w", err)
	}

	a.Auth = service.NewAuthService(service.AuthServiceOptions{
		Gateway:  a.API,
		Decoder:  decoder,
		Sessions: a.Sessions,
		Messages: a.API,
		Logger:   a.Logger,
	})
	a.Dashboards = service.NewDashboardService(service.DashboardServiceOptions{
		API:      a.API,
		Sessions: a.Sessions,
		Messages: a.API,
		Logger:   a.Logger,
	})
	return nil
}

// Handler builds the local route layer with its outer middleware.
func (a *App) Handler() http.Handler {
	return httpx.NewRouter(httpx.RouterServices{
		Auth:           a.Auth,
		Dashboards:     a.Dashboards,
		Sessions:       a.Sessions,
		Table:          a.Table,
		Health:         a.Storage.Health,
		MetricsEnabled: a.Config.Observability.MetricsEnabled,
		Logger:         a.Logger,
	})
}

// Close releases storage connections opened by NewApp.
func (a *App) Close() error {
	if a == nil || !a.ownsStorage {
		return nil
	}
	return a.Storage.Close()
}
