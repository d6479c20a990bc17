package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/clinic-portal/internal/domain/access"
	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/observability/metrics"
	"github.com/target/clinic-portal/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface
	Dashboards DashboardServiceInterface
	Sessions   ports.SessionSource
	// Table is the access table; access.DefaultTable() when nil.
	Table *access.Table
	// Health is consulted by /healthz (optional).
	Health         HealthCheck
	MetricsEnabled bool
	Logger         *slog.Logger
}

// NewRouter builds the route layer. Every path except /healthz, /metrics, and
// POST /logout goes through the access guard.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	table := services.Table
	if table == nil {
		table = access.DefaultTable()
	}

	authHandlers := &AuthHandlers{Svc: services.Auth, Logger: logger}
	dashHandlers := &DashboardHandlers{Svc: services.Dashboards, Logger: logger}

	guarded := http.NewServeMux()
	registerAuthRoutes(guarded, authHandlers)
	if services.Dashboards != nil {
		registerDashboardRoutes(guarded, dashHandlers)
	}
	// The guard has already redirected unknown paths; this only catches
	// unregistered sub-paths of known routes.
	guarded.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
	})

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.Health))
	mux.Handle("HEAD /healthz", healthHandler(services.Health))
	if services.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	mux.HandleFunc("POST /logout", authHandlers.Logout)
	mux.Handle("/", RequireAccess(table, services.Sessions, logger)(guarded))

	return chain(mux, Recover(logger), RequestID(), Logging(logger))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET "+domainauth.LoginPath, h.LoginPage)
	mux.HandleFunc("POST "+domainauth.LoginPath, h.Login)
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers) {
	mux.HandleFunc("GET /admin", h.Admin)
	mux.HandleFunc("GET /admin/appointments", h.Appointments)
	mux.HandleFunc("POST /admin/users", h.CreateUser)
	mux.HandleFunc("POST /admin/users/{id}/enable", h.EnableUser)
	mux.HandleFunc("POST /admin/users/{id}/disable", h.DisableUser)

	mux.HandleFunc("GET /doctor", h.Doctor)
	mux.HandleFunc("POST /doctor/appointments/{id}/complete", h.CompleteAppointment)
	mux.HandleFunc("PUT /doctor/appointments/{id}/notes", h.UpdateAppointmentNotes)

	mux.HandleFunc("GET /patient", h.Patient)
	mux.HandleFunc("POST /patient/appointments", h.BookAppointment)
	mux.HandleFunc("POST /patient/appointments/{id}/cancel", h.CancelAppointment)
	mux.HandleFunc("PUT /patient/appointments/{id}/reschedule", h.RescheduleAppointment)
}

// chain applies middleware so the first listed is outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
