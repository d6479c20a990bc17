package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/clinic-portal/internal/domain/clinic"
	apperrors "github.com/target/clinic-portal/internal/errors"
	"github.com/target/clinic-portal/internal/service"
)

// DashboardServiceInterface defines the dashboard reads and mutations served by the route layer.
type DashboardServiceInterface interface {
	Admin(ctx context.Context) (*service.AdminDashboard, error)
	Doctor(ctx context.Context) (*service.DoctorDashboard, error)
	Patient(ctx context.Context) (*service.PatientDashboard, error)
	CompleteAppointment(ctx context.Context, appointmentID string) (*service.ListSection, error)
	UpdateAppointmentNotes(ctx context.Context, appointmentID, notes string) (*service.ListSection, error)
	CancelAppointment(ctx context.Context, appointmentID string) (*service.ListSection, error)
	SetUserEnabled(ctx context.Context, userID string, enabled bool) (*service.ListSection, error)
	CreateUser(ctx context.Context, user clinic.Record) (*service.ListSection, error)
	Appointments(ctx context.Context, filter service.AppointmentFilter) (*service.ListSection, error)
	BookAppointment(ctx context.Context, req clinic.Record) (*service.ListSection, error)
	RescheduleAppointment(ctx context.Context, appointmentID string, req clinic.Record) (*service.ListSection, error)
}

// DashboardHandlers serves the role dashboards.
type DashboardHandlers struct {
	Svc    DashboardServiceInterface
	Logger *slog.Logger
}

func (h *DashboardHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Admin serves GET /admin.
func (h *DashboardHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Admin(r.Context())
	h.respond(w, r, d, err)
}

// Doctor serves GET /doctor.
func (h *DashboardHandlers) Doctor(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Doctor(r.Context())
	h.respond(w, r, d, err)
}

// Patient serves GET /patient.
func (h *DashboardHandlers) Patient(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Patient(r.Context())
	h.respond(w, r, d, err)
}

// CompleteAppointment serves POST /doctor/appointments/{id}/complete.
func (h *DashboardHandlers) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.CompleteAppointment(r.Context(), r.PathValue("id"))
	h.respond(w, r, out, err)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

// UpdateAppointmentNotes serves PUT /doctor/appointments/{id}/notes.
func (h *DashboardHandlers) UpdateAppointmentNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.UpdateAppointmentNotes(r.Context(), r.PathValue("id"), req.Notes)
	h.respond(w, r, out, err)
}

// CancelAppointment serves POST /patient/appointments/{id}/cancel.
func (h *DashboardHandlers) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.CancelAppointment(r.Context(), r.PathValue("id"))
	h.respond(w, r, out, err)
}

// EnableUser serves POST /admin/users/{id}/enable.
func (h *DashboardHandlers) EnableUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.SetUserEnabled(r.Context(), r.PathValue("id"), true)
	h.respond(w, r, out, err)
}

// DisableUser serves POST /admin/users/{id}/disable.
func (h *DashboardHandlers) DisableUser(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.SetUserEnabled(r.Context(), r.PathValue("id"), false)
	h.respond(w, r, out, err)
}

// CreateUser serves POST /admin/users. The body is passed to the clinic API as sent.
func (h *DashboardHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user clinic.Record
	if !DecodeJSON(w, r, &user) {
		return
	}
	out, err := h.Svc.CreateUser(r.Context(), user)
	h.respond(w, r, out, err)
}

// Appointments serves GET /admin/appointments?date=YYYY-MM-DD or ?status=.
func (h *DashboardHandlers) Appointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Svc.Appointments(r.Context(), service.AppointmentFilter{
		Date:   q.Get("date"),
		Status: q.Get("status"),
	})
	h.respond(w, r, out, err)
}

// BookAppointment serves POST /patient/appointments.
func (h *DashboardHandlers) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req clinic.Record
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.BookAppointment(r.Context(), req)
	h.respond(w, r, out, err)
}

// RescheduleAppointment serves PUT /patient/appointments/{id}/reschedule.
func (h *DashboardHandlers) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req clinic.Record
	if !DecodeJSON(w, r, &req) {
		return
	}
	out, err := h.Svc.RescheduleAppointment(r.Context(), r.PathValue("id"), req)
	h.respond(w, r, out, err)
}

func (h *DashboardHandlers) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err == nil {
		WriteJSON(w, http.StatusOK, v)
		return
	}

	var mutErr *service.MutationError
	switch {
	case errors.Is(err, service.ErrStaleSession):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: errCodeStaleSession, Err: err})
	case errors.As(err, &mutErr):
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: errCodeUpstream, Err: mutErr})
	case apperrors.GetCode(err) == apperrors.ErrCodeValidation:
		WriteAppError(w, err)
	default:
		h.logger().ErrorContext(r.Context(), "dashboard request failed", "path", r.URL.Path, "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("request failed")})
	}
}
