package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.LoginGateway      = (*StubGateway)(nil)
	_ ports.RoleDecoder       = (*StaticRoleDecoder)(nil)
	_ ports.CredentialStorage = (*MemoryCredentialStorage)(nil)
)

// StubGateway simulates the clinic login endpoint.
type StubGateway struct {
	LoginFunc func(ctx context.Context, creds ports.Credentials) (string, error)

	// Token and Err are returned when LoginFunc is nil.
	Token string
	Err   error

	mu    sync.Mutex
	calls []ports.Credentials
}

func (g *StubGateway) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, creds)
	g.mu.Unlock()

	if g.LoginFunc != nil {
		return g.LoginFunc(ctx, creds)
	}
	return g.Token, g.Err
}

// Calls returns the credentials submitted so far.
func (g *StubGateway) Calls() []ports.Credentials {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ports.Credentials, len(g.calls))
	copy(out, g.calls)
	return out
}

// StaticRoleDecoder maps whole tokens to roles without parsing them.
type StaticRoleDecoder struct {
	Roles map[string]domainauth.Role
}

func (d StaticRoleDecoder) DecodeRole(token string) (domainauth.Role, bool) {
	r, ok := d.Roles[token]
	if !ok || r == "" {
		return "", false
	}
	return r, true
}

// MemoryCredentialStorage is an in-memory durable storage for unit tests.
// SetErr and RemoveErr inject failures.
type MemoryCredentialStorage struct {
	SetErr    error
	RemoveErr error

	mu     sync.Mutex
	values map[string]string
}

// NewMemoryCredentialStorage creates storage pre-populated with seed.
func NewMemoryCredentialStorage(seed map[string]string) *MemoryCredentialStorage {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryCredentialStorage{values: values}
}

func (m *MemoryCredentialStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ports.ErrNotFound
	}
	return v, nil
}

func (m *MemoryCredentialStorage) Set(_ context.Context, key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *MemoryCredentialStorage) Remove(_ context.Context, key string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Values returns a copy of everything stored.
func (m *MemoryCredentialStorage) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
