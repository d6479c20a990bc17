package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
)

func TestRouter_GuardMatrix(t *testing.T) {
	roles := []domainauth.Role{"", domainauth.RoleAdmin, domainauth.RoleDoctor, domainauth.RolePatient}
	owners := map[string]domainauth.Role{
		"/admin":   domainauth.RoleAdmin,
		"/doctor":  domainauth.RoleDoctor,
		"/patient": domainauth.RolePatient,
	}

	for _, role := range roles {
		f := newRouterFixture(t, role)
		for path, owner := range owners {
			rec := f.do(http.MethodGet, path, "", nil)
			if role == owner {
				assert.Equal(t, http.StatusOK, rec.Code, "%q on %s", role, path)
				continue
			}
			assert.Equal(t, http.StatusSeeOther, rec.Code, "%q on %s", role, path)
			assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"))
		}
	}
}

func TestRouter_JSONCallersGetStatusCodes(t *testing.T) {
	anon := newRouterFixture(t, "")
	rec := anon.do(http.MethodGet, "/admin", "", jsonAccept)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), errCodeAuthRequired)

	doctor := newRouterFixture(t, domainauth.RoleDoctor)
	rec = doctor.do(http.MethodGet, "/admin/users", "", jsonAccept)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), errCodeInsufficientPerm)
}

func TestRouter_UnknownRoutesRedirect(t *testing.T) {
	f := newRouterFixture(t, domainauth.RoleAdmin)
	for _, path := range []string{"/", "/nope", "/administrator", "/admin/does-not-exist"} {
		rec := f.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"), path)
	}
}

func TestRouter_AmbientEndpointsUnguarded(t *testing.T) {
	f := newRouterFixture(t, "")

	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	f.do(http.MethodGet, "/admin", "", nil)
	rec = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "clinic_guard_decisions_total")
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	f := newRouterFixture(t, "")

	rec := f.do(http.MethodGet, "/healthz", "", map[string]string{"X-Request-ID": "req-1"})
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	rec = f.do(http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_LoginThenDashboardThenLogout(t *testing.T) {
	f := newRouterFixture(t, "")
	f.gateway.Token = "tok-doctor"

	rec := f.do(http.MethodPost, "/login", formBody("doc", "pw"), map[string]string{"Content-Type": contentTypeForm})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/doctor", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/doctor", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"d1"`)

	rec = f.do(http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domainauth.LoginPath, rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/doctor", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, f.store.Snapshot().IsAuthenticated())
}

func TestRouter_MutationRoutes(t *testing.T) {
	doctor := newRouterFixture(t, domainauth.RoleDoctor)

	rec := doctor.do(http.MethodPost, "/doctor/appointments/5/complete", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doctor.do(http.MethodPut, "/doctor/appointments/5/notes", `{"notes":"ok"}`, map[string]string{"Content-Type": contentTypeJSON})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"complete:5", "notes:5:ok"}, doctor.dashboards.calls)

	rec = doctor.do(http.MethodPost, "/patient/appointments/5/cancel", "", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	admin := newRouterFixture(t, domainauth.RoleAdmin)
	rec = admin.do(http.MethodPost, "/admin/users/9/disable", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"disable:9"}, admin.dashboards.calls)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "items")
}

func TestRouter_ResourceRoutes(t *testing.T) {
	jsonBody := map[string]string{"Content-Type": contentTypeJSON}

	admin := newRouterFixture(t, domainauth.RoleAdmin)
	rec := admin.do(http.MethodPost, "/admin/users", `{"username":"nina","role":"DOCTOR"}`, jsonBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = admin.do(http.MethodGet, "/admin/appointments?date=2026-10-16", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = admin.do(http.MethodGet, "/admin/appointments?status=SCHEDULED", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"create_user:nina", "appointments:2026-10-16:", "appointments::SCHEDULED"}, admin.dashboards.calls)

	rec = admin.do(http.MethodGet, "/admin/appointments?date=bad", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "date", body["field"])

	patient := newRouterFixture(t, domainauth.RolePatient)
	rec = patient.do(http.MethodPost, "/patient/appointments", `{"doctorId":"d7"}`, jsonBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = patient.do(http.MethodPut, "/patient/appointments/4/reschedule", `{"date":"2026-11-02"}`, jsonBody)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"book:d7", "reschedule:4:2026-11-02"}, patient.dashboards.calls)

	rec = patient.do(http.MethodGet, "/admin/appointments", "", jsonAccept)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = admin.do(http.MethodPost, "/patient/appointments", `{"doctorId":"d7"}`, jsonBody)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRouter_HealthHEAD(t *testing.T) {
	f := newRouterFixture(t, "")
	rec := f.do(http.MethodHead, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, rec.Body.Len())
}
