package auth

// Package auth contains domain-level types for the client session and roles.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role as issued by the clinic API.
// Keep string form for easy persistence in durable storage.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// LoginPath is the login entry point every denial redirects to.
const LoginPath = "/login"

// ParseRole accepts exactly one of the known role names.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	default:
		return false
	}
}

// HomePath returns the dashboard a role lands on after login.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleDoctor:
		return "/doctor"
	case RolePatient:
		return "/patient"
	default:
		return LoginPath
	}
}

// Status describes whether a login exchange is in flight.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
)

// Session is a point-in-time copy of the client's authentication state.
// Empty Credential, Role, and Error mean absent.
type Session struct {
	Credential string
	Role       Role
	Status     Status
	Error      string
}

// IsAuthenticated is derived from credential presence and is never stored.
func (s Session) IsAuthenticated() bool { return s.Credential != "" }

// HasRole reports whether the session is authenticated with role r.
func (s Session) HasRole(r Role) bool { return s.IsAuthenticated() && s.Role == r }

// IsLoading reports whether a login exchange is in flight.
func (s Session) IsLoading() bool { return s.Status == StatusLoading }
