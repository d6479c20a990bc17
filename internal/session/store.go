// Package session holds the single authoritative client session.
//
// A Store is created once by the application root and shared by reference with
// the access guard, the authenticating transport, and the services. Every
// mutation is one critical section, so readers never see a partial commit.
// Durable storage mirrors only the credential and role.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/observability/metrics"
	"github.com/target/clinic-portal/internal/ports"
)

// ErrInvalidCredentials is returned by SetCredentials when the credential or role is empty.
var ErrInvalidCredentials = errors.New("credential and role are required")

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	Storage ports.CredentialStorage
	// Decoder recovers a role from a restored token whose role entry is missing.
	Decoder ports.RoleDecoder
	Logger  *slog.Logger
}

// Store is the sole writer of the session.
type Store struct {
	storage ports.CredentialStorage
	decoder ports.RoleDecoder
	logger  *slog.Logger

	// persistMu orders identity changes with their durable writes, so storage
	// always ends up holding the last committed identity.
	persistMu sync.Mutex

	mu         sync.RWMutex
	credential string
	role       domainauth.Role
	status     domainauth.Status
	errMsg     string
	generation uint64
}

var _ ports.SessionManager = (*Store)(nil)

// NewStore creates an empty, idle store. Call Restore to load persisted state.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: opts.Storage,
		decoder: opts.Decoder,
		logger:  logger.With("component", "session"),
		status:  domainauth.StatusIdle,
	}
}

// Snapshot returns a consistent copy of the session.
func (s *Store) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domainauth.Session{
		Credential: s.credential,
		Role:       s.role,
		Status:     s.status,
		Error:      s.errMsg,
	}
}

// Generation identifies the current session identity. It changes whenever a
// credential is committed or cleared, and never otherwise.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// IsCurrent reports whether gen still names the current session identity.
// Work started under an older generation must discard its result.
func (s *Store) IsCurrent(gen uint64) bool {
	return s.Generation() == gen
}

// SetCredentials commits credential and role, clears the error, and persists both.
// The in-memory commit stands even when persisting fails; the error is returned.
func (s *Store) SetCredentials(ctx context.Context, credential string, role domainauth.Role) error {
	if credential == "" || role == "" {
		return ErrInvalidCredentials
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if s.credential != credential || s.role != role {
		s.generation++
	}
	s.credential = credential
	s.role = role
	s.errMsg = ""
	s.mu.Unlock()
	metrics.ObserveSessionOp("set_credentials")

	return s.persist(ctx, credential, role)
}

// Clear logs out: it wipes credential, role, and error and removes the persisted copies.
// Calling it again yields the same state.
func (s *Store) Clear(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.clear(ctx)
}

// clear requires persistMu.
func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	if s.credential != "" {
		s.generation++
	}
	s.credential = ""
	s.role = ""
	s.errMsg = ""
	s.mu.Unlock()
	metrics.ObserveSessionOp("clear")

	return s.removePersisted(ctx)
}

// SetError records the last login failure without touching credential or role.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// ClearError resets the last login failure.
func (s *Store) ClearError() {
	s.SetError("")
}

// SetLoading toggles the status between idle and loading.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	if loading {
		s.status = domainauth.StatusLoading
	} else {
		s.status = domainauth.StatusIdle
	}
	s.mu.Unlock()
}

// TryStartLoading moves idle to loading and reports whether it did.
// A false result means a login is already in flight.
func (s *Store) TryStartLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == domainauth.StatusLoading {
		return false
	}
	s.status = domainauth.StatusLoading
	return true
}

// Restore loads the persisted credential and role. A present credential makes the
// session authenticated without any freshness check; the API rejects stale tokens.
// When the role entry is missing it is decoded from the token, and a token with no
// recoverable role is cleared.
func (s *Store) Restore(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	token, err := s.read(ctx, ports.KeyToken)
	if err != nil {
		return err
	}
	if token == "" {
		// A role without a credential is meaningless; drop it.
		if rmErr := s.storage.Remove(ctx, ports.KeyRole); rmErr != nil {
			return fmt.Errorf("remove orphaned role: %w", rmErr)
		}
		return nil
	}

	rawRole, err := s.read(ctx, ports.KeyRole)
	if err != nil {
		return err
	}
	role := domainauth.Role(rawRole)
	if role == "" && s.decoder != nil {
		if decoded, ok := s.decoder.DecodeRole(token); ok {
			role = decoded
		}
	}
	if role == "" {
		s.logger.WarnContext(ctx, "persisted credential has no role; clearing")
		return s.clear(ctx)
	}

	s.mu.Lock()
	s.credential = token
	s.role = role
	s.generation++
	s.mu.Unlock()
	metrics.ObserveSessionOp("restore")

	s.logger.DebugContext(ctx, "session restored", "role", string(role))
	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, error) {
	v, err := s.storage.Get(ctx, key)
	if errors.Is(err, ports.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) persist(ctx context.Context, credential string, role domainauth.Role) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Set(ctx, ports.KeyToken, credential); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, ports.KeyRole, string(role)); err != nil {
		return fmt.Errorf("persist role: %w", err)
	}
	return nil
}

func (s *Store) removePersisted(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	var errs []error
	for _, key := range []string{ports.KeyToken, ports.KeyRole} {
		if err := s.storage.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
