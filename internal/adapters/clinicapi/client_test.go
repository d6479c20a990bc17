package clinicapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/clinic-portal/internal/ports"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) add(c recorded) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recorder) take() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.calls
	r.calls = nil
	return out
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.add(recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: string(body)})
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientOptions{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c, rec
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	assert.Error(t, err)

	_, err = NewClient(ClientOptions{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	c, err := NewClient(ClientOptions{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}

func TestLogin_Success(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc.def.ghi"}`))
	})

	token, err := c.Login(context.Background(), ports.Credentials{Username: "doc", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	calls := rec.take()
	require.Len(t, calls, 1)
	got := calls[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, LoginPath, got.Path)
	assert.JSONEq(t, `{"username":"doc","password":"pw"}`, got.Body)
}

func TestLogin_EmptyToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":""}`))
	})

	_, err := c.Login(context.Background(), ports.Credentials{})
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestLogin_Rejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	_, err := c.Login(context.Background(), ports.Credentials{Username: "x", Password: "y"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, LoginPath, httpErr.Path)
	assert.Equal(t, "Bad credentials", c.Message(err, LoginFallback))
}

func TestLogin_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(ClientOptions{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Login(context.Background(), ports.Credentials{})
	require.Error(t, err)
	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	assert.NotEqual(t, LoginFallback, c.Message(err, LoginFallback))
}

func TestResources_PathsAndBodies(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path != doctorMePath && r.URL.Path != patientMePath {
			_, _ = w.Write([]byte(`[{"id":1}]`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"x"}`))
	})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want recorded
	}{
		{"list users", func() error { _, err := c.ListUsers(ctx); return err }, recorded{Method: "GET", Path: "/api/users"}},
		{"enable user", func() error { _, err := c.EnableUser(ctx, "7"); return err }, recorded{Method: "PUT", Path: "/api/users/7/enable"}},
		{"disable user", func() error { _, err := c.DisableUser(ctx, "7"); return err }, recorded{Method: "PUT", Path: "/api/users/7/disable"}},
		{"role", func() error { _, err := c.UpdateUserRole(ctx, "7", "DOCTOR"); return err }, recorded{Method: "PUT", Path: "/api/users/7/role", Body: `{"role":"DOCTOR"}`}},
		{"password", func() error { _, err := c.ResetUserPassword(ctx, "7", map[string]string{"password": "n"}); return err }, recorded{Method: "PUT", Path: "/api/users/7/password", Body: `{"password":"n"}`}},
		{"delete service", func() error { return c.DeleteService(ctx, "3") }, recorded{Method: "DELETE", Path: "/services/3"}},
		{"doctor profile", func() error { _, err := c.GetDoctorProfile(ctx); return err }, recorded{Method: "GET", Path: "/api/doctors/me"}},
		{"doctor upcoming", func() error { _, err := c.DoctorUpcomingAppointments(ctx); return err }, recorded{Method: "GET", Path: "/api/doctors/me/appointments/upcoming"}},
		{"notes", func() error { return c.UpdateAppointmentNotes(ctx, "9", "ok") }, recorded{Method: "PUT", Path: "/api/doctors/me/appointments/9/notes", Body: `{"notes":"ok"}`}},
		{"complete", func() error { return c.CompleteAppointment(ctx, "9") }, recorded{Method: "PUT", Path: "/api/doctors/me/appointments/9/complete"}},
		{"patient doctors", func() error { _, err := c.PatientDoctors(ctx); return err }, recorded{Method: "GET", Path: "/api/patients/me/doctors"}},
		{"cancel", func() error { return c.CancelPatientAppointment(ctx, "9") }, recorded{Method: "DELETE", Path: "/api/appointments/patient/me/9"}},
		{"reschedule", func() error { return c.RescheduleAppointment(ctx, "9", map[string]string{"date": "2026-01-02"}) }, recorded{Method: "PUT", Path: "/api/appointments/patient/me/9/reschedule", Body: `{"date":"2026-01-02"}`}},
		{"doctor cancel", func() error { return c.DoctorCancelAppointment(ctx, "9") }, recorded{Method: "DELETE", Path: "/api/appointments/doctor/me/9/cancel"}},
		{"doctor status", func() error { _, err := c.AppointmentsByStatusForDoctor(ctx, "BOOKED"); return err }, recorded{Method: "GET", Path: "/api/appointments/doctor/me/status", Query: "status=BOOKED"}},
		{"by date", func() error { _, err := c.AppointmentsByDate(ctx, "2026-01-02"); return err }, recorded{Method: "GET", Path: "/api/appointments/date", Query: "date=2026-01-02"}},
		{"by patient", func() error { _, err := c.AppointmentsByPatient(ctx, "4"); return err }, recorded{Method: "GET", Path: "/api/appointments/patient/4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.take()
			require.NoError(t, tt.call())
			calls := rec.take()
			require.Len(t, calls, 1)
			got := calls[0]
			assert.Equal(t, tt.want.Method, got.Method)
			assert.Equal(t, tt.want.Path, got.Path)
			assert.Equal(t, tt.want.Query, got.Query)
			if tt.want.Body == "" {
				assert.Empty(t, got.Body)
			} else {
				assert.JSONEq(t, tt.want.Body, got.Body)
			}
		})
	}
}

func TestResources_DecodesRecords(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 12, "name": "Cleaning"}, {"id": "a1"}})
	})

	got, err := c.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "12", got[0].ID())
	assert.Equal(t, "Cleaning", got[0].String("name"))
	assert.Equal(t, "a1", got[1].ID())
}

func TestResources_ErrorUsesRequestFallbackPrecedence(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`"Access denied"`))
	})

	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Access denied", c.Message(err, RequestFallback))
}
