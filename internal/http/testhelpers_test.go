package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/domain/clinic"
	apperrors "github.com/target/clinic-portal/internal/errors"
	mockauth "github.com/target/clinic-portal/internal/mocks/auth"
	"github.com/target/clinic-portal/internal/service"
	"github.com/target/clinic-portal/internal/session"
)

// fakeDashboards returns fixed data and records mutations.
type fakeDashboards struct {
	err   error
	calls []string
}

func (f *fakeDashboards) Admin(context.Context) (*service.AdminDashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.AdminDashboard{Users: service.ListSection{Items: []clinic.Record{{"id": "u1"}}}}, nil
}

func (f *fakeDashboards) Doctor(context.Context) (*service.DoctorDashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.DoctorDashboard{Profile: service.RecordSection{Record: clinic.Record{"id": "d1"}}}, nil
}

func (f *fakeDashboards) Patient(context.Context) (*service.PatientDashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.PatientDashboard{Profile: service.RecordSection{Record: clinic.Record{"id": "p1"}}}, nil
}

func (f *fakeDashboards) mutation(name string) (*service.ListSection, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	return &service.ListSection{Items: []clinic.Record{}}, nil
}

func (f *fakeDashboards) CompleteAppointment(_ context.Context, id string) (*service.ListSection, error) {
	return f.mutation("complete:" + id)
}

func (f *fakeDashboards) UpdateAppointmentNotes(_ context.Context, id, notes string) (*service.ListSection, error) {
	return f.mutation("notes:" + id + ":" + notes)
}

func (f *fakeDashboards) CancelAppointment(_ context.Context, id string) (*service.ListSection, error) {
	return f.mutation("cancel:" + id)
}

func (f *fakeDashboards) SetUserEnabled(_ context.Context, id string, enabled bool) (*service.ListSection, error) {
	if enabled {
		return f.mutation("enable:" + id)
	}
	return f.mutation("disable:" + id)
}

func (f *fakeDashboards) CreateUser(_ context.Context, user clinic.Record) (*service.ListSection, error) {
	return f.mutation("create_user:" + user.String("username"))
}

func (f *fakeDashboards) Appointments(_ context.Context, filter service.AppointmentFilter) (*service.ListSection, error) {
	if filter.Date == "bad" {
		return nil, apperrors.ValidationField("date", "date must be YYYY-MM-DD")
	}
	return f.mutation("appointments:" + filter.Date + ":" + filter.Status)
}

func (f *fakeDashboards) BookAppointment(_ context.Context, req clinic.Record) (*service.ListSection, error) {
	return f.mutation("book:" + req.String("doctorId"))
}

func (f *fakeDashboards) RescheduleAppointment(_ context.Context, id string, req clinic.Record) (*service.ListSection, error) {
	return f.mutation("reschedule:" + id + ":" + req.String("date"))
}

type routerFixture struct {
	handler    http.Handler
	store      *session.Store
	gateway    *mockauth.StubGateway
	dashboards *fakeDashboards
}

// tokens maps the stub gateway's tokens to roles.
var tokens = map[string]domainauth.Role{
	"tok-admin":   domainauth.RoleAdmin,
	"tok-doctor":  domainauth.RoleDoctor,
	"tok-patient": domainauth.RolePatient,
}

func newRouterFixture(t *testing.T, role domainauth.Role) *routerFixture {
	t.Helper()
	decoder := mockauth.StaticRoleDecoder{Roles: tokens}
	store := session.NewStore(session.StoreOptions{Storage: mockauth.NewMemoryCredentialStorage(nil), Decoder: decoder})
	if role != "" {
		require.NoError(t, store.SetCredentials(context.Background(), "tok-"+strings.ToLower(string(role)), role))
	}
	gateway := &mockauth.StubGateway{}
	dashboards := &fakeDashboards{}
	auth := service.NewAuthService(service.AuthServiceOptions{Gateway: gateway, Decoder: decoder, Sessions: store})

	return &routerFixture{
		handler: NewRouter(RouterServices{
			Auth:           auth,
			Dashboards:     dashboards,
			Sessions:       store,
			MetricsEnabled: true,
		}),
		store:      store,
		gateway:    gateway,
		dashboards: dashboards,
	}
}

func (f *routerFixture) do(method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

var jsonAccept = map[string]string{"Accept": "application/json"}

func formBody(username, password string) string {
	return url.Values{"username": {username}, "password": {password}}.Encode()
}
