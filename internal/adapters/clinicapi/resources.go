package clinicapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/target/clinic-portal/internal/domain/clinic"
	"github.com/target/clinic-portal/internal/ports"
)

var _ ports.ClinicResources = (*Client)(nil)

func seg(id string) string { return "/" + url.PathEscape(id) }

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]clinic.Record, error) {
	var out []clinic.Record
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: query, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) record(ctx context.Context, method, path string, body any) (clinic.Record, error) {
	var out clinic.Record
	if err := c.do(ctx, request{method: method, path: path, body: body, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) error {
	return c.do(ctx, request{method: method, path: path, body: body})
}

// Users (admin).

const usersPath = "/api/users"

func (c *Client) ListUsers(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, usersPath, nil)
}

func (c *Client) CreateUser(ctx context.Context, user any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPost, usersPath, user)
}

func (c *Client) EnableUser(ctx context.Context, userID string) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, usersPath+seg(userID)+"/enable", nil)
}

func (c *Client) DisableUser(ctx context.Context, userID string) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, usersPath+seg(userID)+"/disable", nil)
}

func (c *Client) UpdateUserRole(ctx context.Context, userID, role string) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, usersPath+seg(userID)+"/role", RoleUpdate{Role: role})
}

func (c *Client) UpdateUser(ctx context.Context, userID string, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, usersPath+seg(userID), payload)
}

func (c *Client) ResetUserPassword(ctx context.Context, userID string, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, usersPath+seg(userID)+"/password", payload)
}

// Medical services.

const servicesPath = "/services"

func (c *Client) ListServices(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, servicesPath, nil)
}

func (c *Client) CreateService(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPost, servicesPath, payload)
}

func (c *Client) UpdateService(ctx context.Context, serviceID string, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, servicesPath+seg(serviceID), payload)
}

func (c *Client) DeleteService(ctx context.Context, serviceID string) error {
	return c.send(ctx, http.MethodDelete, servicesPath+seg(serviceID), nil)
}

// Doctor self-service.

const doctorMePath = "/api/doctors/me"

func (c *Client) CreateDoctorProfile(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPost, doctorMePath, payload)
}

func (c *Client) GetDoctorProfile(ctx context.Context) (clinic.Record, error) {
	return c.record(ctx, http.MethodGet, doctorMePath, nil)
}

func (c *Client) UpdateDoctorProfile(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, doctorMePath, payload)
}

func (c *Client) DoctorPatients(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, doctorMePath+"/patients", nil)
}

func (c *Client) DoctorAppointments(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, doctorMePath+"/appointments", nil)
}

func (c *Client) DoctorAppointmentHistory(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, doctorMePath+"/appointments/history", nil)
}

func (c *Client) DoctorUpcomingAppointments(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, doctorMePath+"/appointments/upcoming", nil)
}

func (c *Client) UpdateAppointmentNotes(ctx context.Context, appointmentID, notes string) error {
	return c.send(ctx, http.MethodPut, doctorMePath+"/appointments"+seg(appointmentID)+"/notes", NotesUpdate{Notes: notes})
}

func (c *Client) CompleteAppointment(ctx context.Context, appointmentID string) error {
	return c.send(ctx, http.MethodPut, doctorMePath+"/appointments"+seg(appointmentID)+"/complete", nil)
}

// Patient self-service.

const patientMePath = "/api/patients/me"

func (c *Client) CreatePatientProfile(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPost, patientMePath, payload)
}

func (c *Client) GetPatientProfile(ctx context.Context) (clinic.Record, error) {
	return c.record(ctx, http.MethodGet, patientMePath, nil)
}

func (c *Client) UpdatePatientProfile(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPut, patientMePath, payload)
}

func (c *Client) PatientDoctors(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, patientMePath+"/doctors", nil)
}

// Appointments.

const (
	appointmentsPath        = "/api/appointments"
	patientAppointmentsPath = appointmentsPath + "/patient/me"
	doctorAppointmentsPath  = appointmentsPath + "/doctor/me"
)

func (c *Client) BookAppointment(ctx context.Context, payload any) (clinic.Record, error) {
	return c.record(ctx, http.MethodPost, patientAppointmentsPath, payload)
}

func (c *Client) CancelPatientAppointment(ctx context.Context, appointmentID string) error {
	return c.send(ctx, http.MethodDelete, patientAppointmentsPath+seg(appointmentID), nil)
}

func (c *Client) RescheduleAppointment(ctx context.Context, appointmentID string, payload any) error {
	return c.send(ctx, http.MethodPut, patientAppointmentsPath+seg(appointmentID)+"/reschedule", payload)
}

func (c *Client) PatientUpcoming(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, patientAppointmentsPath+"/upcoming", nil)
}

func (c *Client) PatientHistory(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, patientAppointmentsPath+"/history", nil)
}

func (c *Client) DoctorCancelAppointment(ctx context.Context, appointmentID string) error {
	return c.send(ctx, http.MethodDelete, doctorAppointmentsPath+seg(appointmentID)+"/cancel", nil)
}

func (c *Client) AppointmentsByStatusForDoctor(ctx context.Context, status string) ([]clinic.Record, error) {
	return c.list(ctx, doctorAppointmentsPath+"/status", url.Values{"status": {status}})
}

func (c *Client) ListAppointments(ctx context.Context) ([]clinic.Record, error) {
	return c.list(ctx, appointmentsPath, nil)
}

func (c *Client) AppointmentsByDate(ctx context.Context, date string) ([]clinic.Record, error) {
	return c.list(ctx, appointmentsPath+"/date", url.Values{"date": {date}})
}

func (c *Client) AppointmentsByStatus(ctx context.Context, status string) ([]clinic.Record, error) {
	return c.list(ctx, appointmentsPath+"/status", url.Values{"status": {status}})
}

func (c *Client) AppointmentsByDoctor(ctx context.Context, doctorID string) ([]clinic.Record, error) {
	return c.list(ctx, appointmentsPath+"/doctor"+seg(doctorID), nil)
}

func (c *Client) AppointmentsByPatient(ctx context.Context, patientID string) ([]clinic.Record, error) {
	return c.list(ctx, appointmentsPath+"/patient"+seg(patientID), nil)
}
