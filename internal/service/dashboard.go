package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/clinic-portal/internal/domain/clinic"
	apperrors "github.com/target/clinic-portal/internal/errors"
	"github.com/target/clinic-portal/internal/ports"
)

// RequestFailedMessage is the fallback for a resource call with no better message.
const RequestFailedMessage = "Request failed"

// ListSection is one independently loaded list on a dashboard. Error is set
// when the load failed; it never affects other sections.
type ListSection struct {
	Items []clinic.Record `json:"items"`
	Error string          `json:"error,omitempty"`
}

// RecordSection is one independently loaded object on a dashboard.
type RecordSection struct {
	Record clinic.Record `json:"record,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// AdminDashboard is the administrator's landing data.
type AdminDashboard struct {
	Users        ListSection `json:"users"`
	Services     ListSection `json:"services"`
	Appointments ListSection `json:"appointments"`
}

// DoctorDashboard is the doctor's landing data.
type DoctorDashboard struct {
	Profile  RecordSection `json:"profile"`
	Patients ListSection   `json:"patients"`
	Upcoming ListSection   `json:"upcoming"`
	History  ListSection   `json:"history"`
}

// PatientDashboard is the patient's landing data.
type PatientDashboard struct {
	Profile  RecordSection `json:"profile"`
	Doctors  ListSection   `json:"doctors"`
	Upcoming ListSection   `json:"upcoming"`
	History  ListSection   `json:"history"`
}

// AppointmentFilter narrows the admin appointment list. At most one field may be set.
type AppointmentFilter struct {
	// Date is a calendar day, YYYY-MM-DD.
	Date   string
	Status string
}

// appointmentDateLayout is the date format the clinic API filters on.
const appointmentDateLayout = "2006-01-02"

// generations reports the session identity stamp.
type generations interface {
	Generation() uint64
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	API      ports.ClinicResources
	Sessions generations
	Messages ports.ErrorMessages
	Logger   *slog.Logger
}

// DashboardService loads and mutates the per-role dashboard data.
// A failed resource call is reported in its section and never logs the session out.
type DashboardService struct {
	api      ports.ClinicResources
	sessions generations
	messages ports.ErrorMessages
	logger   *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msgs := opts.Messages
	if msgs == nil {
		msgs = plainMessages{}
	}
	return &DashboardService{
		api:      opts.API,
		sessions: opts.Sessions,
		messages: msgs,
		logger:   logger.With("component", "dashboard_service"),
	}
}

// Admin loads users, services, and appointments concurrently.
func (s *DashboardService) Admin(ctx context.Context) (*AdminDashboard, error) {
	gen := s.generation()
	var d AdminDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.loadList(gctx, "users", s.api.ListUsers, &d.Users))
	g.Go(s.loadList(gctx, "services", s.api.ListServices, &d.Services))
	g.Go(s.loadList(gctx, "appointments", s.api.ListAppointments, &d.Appointments))
	_ = g.Wait()

	if err := s.checkCurrent(ctx, gen); err != nil {
		return nil, err
	}
	return &d, nil
}

// Doctor loads the doctor's profile, patients, and appointments concurrently.
func (s *DashboardService) Doctor(ctx context.Context) (*DoctorDashboard, error) {
	gen := s.generation()
	var d DoctorDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.loadRecord(gctx, "profile", s.api.GetDoctorProfile, &d.Profile))
	g.Go(s.loadList(gctx, "patients", s.api.DoctorPatients, &d.Patients))
	g.Go(s.loadList(gctx, "upcoming", s.api.DoctorUpcomingAppointments, &d.Upcoming))
	g.Go(s.loadList(gctx, "history", s.api.DoctorAppointmentHistory, &d.History))
	_ = g.Wait()

	if err := s.checkCurrent(ctx, gen); err != nil {
		return nil, err
	}
	return &d, nil
}

// Patient loads the patient's profile, doctors, and appointments concurrently.
func (s *DashboardService) Patient(ctx context.Context) (*PatientDashboard, error) {
	gen := s.generation()
	var d PatientDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.loadRecord(gctx, "profile", s.api.GetPatientProfile, &d.Profile))
	g.Go(s.loadList(gctx, "doctors", s.api.PatientDoctors, &d.Doctors))
	g.Go(s.loadList(gctx, "upcoming", s.api.PatientUpcoming, &d.Upcoming))
	g.Go(s.loadList(gctx, "history", s.api.PatientHistory, &d.History))
	_ = g.Wait()

	if err := s.checkCurrent(ctx, gen); err != nil {
		return nil, err
	}
	return &d, nil
}

// CompleteAppointment marks an appointment complete, then reloads the doctor's upcoming list.
func (s *DashboardService) CompleteAppointment(ctx context.Context, appointmentID string) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "upcoming",
		func(ctx context.Context) error { return s.api.CompleteAppointment(ctx, appointmentID) },
		s.api.DoctorUpcomingAppointments)
}

// UpdateAppointmentNotes saves notes, then reloads the doctor's history.
func (s *DashboardService) UpdateAppointmentNotes(ctx context.Context, appointmentID, notes string) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "history",
		func(ctx context.Context) error { return s.api.UpdateAppointmentNotes(ctx, appointmentID, notes) },
		s.api.DoctorAppointmentHistory)
}

// CancelAppointment cancels a patient's appointment, then reloads the patient's upcoming list.
func (s *DashboardService) CancelAppointment(ctx context.Context, appointmentID string) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "upcoming",
		func(ctx context.Context) error { return s.api.CancelPatientAppointment(ctx, appointmentID) },
		s.api.PatientUpcoming)
}

// SetUserEnabled enables or disables a user, then reloads the users list.
func (s *DashboardService) SetUserEnabled(ctx context.Context, userID string, enabled bool) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "users",
		func(ctx context.Context) error {
			var err error
			if enabled {
				_, err = s.api.EnableUser(ctx, userID)
			} else {
				_, err = s.api.DisableUser(ctx, userID)
			}
			return err
		},
		s.api.ListUsers)
}

// CreateUser creates a user account, then reloads the users list.
func (s *DashboardService) CreateUser(ctx context.Context, user clinic.Record) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "users",
		func(ctx context.Context) error {
			_, err := s.api.CreateUser(ctx, user)
			return err
		},
		s.api.ListUsers)
}

// BookAppointment books an appointment for the patient, then reloads the upcoming list.
func (s *DashboardService) BookAppointment(ctx context.Context, req clinic.Record) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "upcoming",
		func(ctx context.Context) error {
			_, err := s.api.BookAppointment(ctx, req)
			return err
		},
		s.api.PatientUpcoming)
}

// RescheduleAppointment moves a patient's appointment, then reloads the upcoming list.
func (s *DashboardService) RescheduleAppointment(ctx context.Context, appointmentID string, req clinic.Record) (*ListSection, error) {
	return s.mutateThenRefetch(ctx, "upcoming",
		func(ctx context.Context) error { return s.api.RescheduleAppointment(ctx, appointmentID, req) },
		s.api.PatientUpcoming)
}

// Appointments loads the admin appointment list, filtered by date or status.
// An empty filter loads every appointment. A load failure is reported in the section.
func (s *DashboardService) Appointments(ctx context.Context, filter AppointmentFilter) (*ListSection, error) {
	fetch, err := s.appointmentSource(filter)
	if err != nil {
		return nil, err
	}

	gen := s.generation()
	var out ListSection
	_ = s.loadList(ctx, "appointments", fetch, &out)()

	if err := s.checkCurrent(ctx, gen); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) appointmentSource(filter AppointmentFilter) (func(context.Context) ([]clinic.Record, error), error) {
	date := strings.TrimSpace(filter.Date)
	status := strings.TrimSpace(filter.Status)

	switch {
	case date != "" && status != "":
		return nil, apperrors.Validationf("filter appointments by date or status, not both")
	case date != "":
		if _, err := time.Parse(appointmentDateLayout, date); err != nil {
			return nil, apperrors.ValidationField("date", "date must be YYYY-MM-DD")
		}
		return func(ctx context.Context) ([]clinic.Record, error) { return s.api.AppointmentsByDate(ctx, date) }, nil
	case status != "":
		return func(ctx context.Context) ([]clinic.Record, error) { return s.api.AppointmentsByStatus(ctx, status) }, nil
	default:
		return s.api.ListAppointments, nil
	}
}

// MutationError is a failed dashboard mutation; Message is operator-facing.
type MutationError struct {
	Message string
	Err     error
}

func (e *MutationError) Error() string { return e.Message }

func (e *MutationError) Unwrap() error { return e.Err }

func (s *DashboardService) mutateThenRefetch(
	ctx context.Context,
	section string,
	mutate func(context.Context) error,
	fetch func(context.Context) ([]clinic.Record, error),
) (*ListSection, error) {
	gen := s.generation()

	if err := mutate(ctx); err != nil {
		s.logger.WarnContext(ctx, "dashboard mutation failed", "section", section, "error", err)
		return nil, &MutationError{Message: s.messages.Message(err, RequestFailedMessage), Err: err}
	}

	var out ListSection
	_ = s.loadList(ctx, section, fetch, &out)()

	if err := s.checkCurrent(ctx, gen); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) loadList(
	ctx context.Context,
	section string,
	fetch func(context.Context) ([]clinic.Record, error),
	dst *ListSection,
) func() error {
	return func() error {
		items, err := fetch(ctx)
		if err != nil {
			dst.Error = s.messages.Message(err, RequestFailedMessage)
			s.logger.WarnContext(ctx, "dashboard section failed", "section", section, "error", err)
			return nil
		}
		if items == nil {
			items = []clinic.Record{}
		}
		dst.Items = items
		return nil
	}
}

func (s *DashboardService) loadRecord(
	ctx context.Context,
	section string,
	fetch func(context.Context) (clinic.Record, error),
	dst *RecordSection,
) func() error {
	return func() error {
		rec, err := fetch(ctx)
		if err != nil {
			dst.Error = s.messages.Message(err, RequestFailedMessage)
			s.logger.WarnContext(ctx, "dashboard section failed", "section", section, "error", err)
			return nil
		}
		dst.Record = rec
		return nil
	}
}

func (s *DashboardService) generation() uint64 {
	if s.sessions == nil {
		return 0
	}
	return s.sessions.Generation()
}

func (s *DashboardService) checkCurrent(ctx context.Context, gen uint64) error {
	if s.generation() != gen {
		s.logger.InfoContext(ctx, "discarding dashboard result; session changed")
		return ErrStaleSession
	}
	return nil
}
