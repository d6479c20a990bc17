package ports

import (
	"context"

	"github.com/target/clinic-portal/internal/domain/clinic"
)

// ErrorMessages turns a failed API call into the message shown to the operator.
type ErrorMessages interface {
	Message(err error, fallback string) string
}

// ClinicResources is the subset of the clinic API the dashboards read and mutate.
type ClinicResources interface {
	ListUsers(ctx context.Context) ([]clinic.Record, error)
	CreateUser(ctx context.Context, user any) (clinic.Record, error)
	EnableUser(ctx context.Context, userID string) (clinic.Record, error)
	DisableUser(ctx context.Context, userID string) (clinic.Record, error)
	ListServices(ctx context.Context) ([]clinic.Record, error)
	ListAppointments(ctx context.Context) ([]clinic.Record, error)
	AppointmentsByDate(ctx context.Context, date string) ([]clinic.Record, error)
	AppointmentsByStatus(ctx context.Context, status string) ([]clinic.Record, error)

	GetDoctorProfile(ctx context.Context) (clinic.Record, error)
	DoctorPatients(ctx context.Context) ([]clinic.Record, error)
	DoctorUpcomingAppointments(ctx context.Context) ([]clinic.Record, error)
	DoctorAppointmentHistory(ctx context.Context) ([]clinic.Record, error)
	CompleteAppointment(ctx context.Context, appointmentID string) error
	UpdateAppointmentNotes(ctx context.Context, appointmentID, notes string) error

	GetPatientProfile(ctx context.Context) (clinic.Record, error)
	PatientDoctors(ctx context.Context) ([]clinic.Record, error)
	PatientUpcoming(ctx context.Context) ([]clinic.Record, error)
	PatientHistory(ctx context.Context) ([]clinic.Record, error)
	CancelPatientAppointment(ctx context.Context, appointmentID string) error
	BookAppointment(ctx context.Context, payload any) (clinic.Record, error)
	RescheduleAppointment(ctx context.Context, appointmentID string, payload any) error
}
