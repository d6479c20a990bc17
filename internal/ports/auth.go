package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
)

// Durable storage keys. Both hold raw strings and are absent when logged out.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// ErrNotFound is returned by CredentialStorage.Get when a key is absent.
var ErrNotFound = errors.New("credential not found")

// Credentials are the username/password pair submitted at login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginGateway exchanges credentials for a bearer token against the clinic API.
type LoginGateway interface {
	Login(ctx context.Context, creds Credentials) (string, error)
}

// RoleDecoder extracts the role claim from a bearer token.
// Every failure collapses to ok=false.
type RoleDecoder interface {
	DecodeRole(token string) (domainauth.Role, bool)
}

// CredentialStorage is string key/value storage that survives process restarts.
type CredentialStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// SessionSource exposes read access to the current session.
type SessionSource interface {
	Snapshot() domainauth.Session
}

// SessionManager is the mutable session the login flow drives.
type SessionManager interface {
	SessionSource
	Generation() uint64
	SetCredentials(ctx context.Context, credential string, role domainauth.Role) error
	Clear(ctx context.Context) error
	SetError(msg string)
	ClearError()
	SetLoading(loading bool)
	TryStartLoading() bool
}
