package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/observability/metrics"
	"github.com/target/clinic-portal/internal/ports"
)

// Messages shown to the operator when a login fails.
const (
	LoginFailedMessage = "Login failed"
	UnknownRoleMessage = "Unknown role"
)

var (
	// ErrLoginInProgress is returned when a login is submitted while another is in flight.
	ErrLoginInProgress = errors.New("login already in progress")
	// ErrUnknownRole is returned when the issued token carries no recognized role.
	ErrUnknownRole = errors.New("token carries no recognized role")
	// ErrStaleSession is returned when the session changed identity while a call was in flight.
	ErrStaleSession = errors.New("session changed while request was in flight")
)

// LoginError is a rejected or failed credential exchange. Message is what the
// session records; Err is the gateway's error.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway  ports.LoginGateway
	Decoder  ports.RoleDecoder
	Sessions ports.SessionManager
	// Messages extracts the operator-facing failure message. err.Error() is used when nil.
	Messages ports.ErrorMessages
	Logger   *slog.Logger
}

// AuthService orchestrates login and logout against the session.
type AuthService struct {
	gateway  ports.LoginGateway
	decoder  ports.RoleDecoder
	sessions ports.SessionManager
	messages ports.ErrorMessages
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msgs := opts.Messages
	if msgs == nil {
		msgs = plainMessages{}
	}
	return &AuthService{
		gateway:  opts.Gateway,
		decoder:  opts.Decoder,
		sessions: opts.Sessions,
		messages: msgs,
		logger:   logger.With("component", "auth_service"),
	}
}

// Login exchanges creds for a credential, decodes its role, and commits both.
// Credentials are only committed once the role is known.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (domainauth.Session, error) {
	if !s.sessions.TryStartLoading() {
		metrics.ObserveLogin("in_progress", nil)
		return s.sessions.Snapshot(), ErrLoginInProgress
	}
	defer s.sessions.SetLoading(false)

	s.sessions.ClearError()
	gen := s.sessions.Generation()

	token, err := s.gateway.Login(ctx, creds)
	if err != nil {
		msg := s.messages.Message(err, LoginFailedMessage)
		s.sessions.SetError(msg)
		metrics.ObserveLogin(metrics.ResultError, err)
		s.logger.InfoContext(ctx, "login rejected", "username", creds.Username, "error", err)
		return s.sessions.Snapshot(), &LoginError{Message: msg, Err: err}
	}

	role, ok := s.decodeRole(token)
	if !ok {
		s.sessions.SetError(UnknownRoleMessage)
		metrics.ObserveLogin("unknown_role", nil)
		s.logger.WarnContext(ctx, "login token has no recognized role", "username", creds.Username)
		return s.sessions.Snapshot(), ErrUnknownRole
	}

	if s.sessions.Generation() != gen {
		metrics.ObserveLogin("stale", nil)
		s.logger.InfoContext(ctx, "discarding login result; session changed", "username", creds.Username)
		return s.sessions.Snapshot(), ErrStaleSession
	}

	if err := s.sessions.SetCredentials(ctx, token, role); err != nil {
		// A persistence failure leaves the in-memory commit in place.
		if s.sessions.Snapshot().Credential != token {
			metrics.ObserveLogin(metrics.ResultError, err)
			return s.sessions.Snapshot(), err
		}
		s.logger.WarnContext(ctx, "session not persisted; it will not survive a restart", "error", err)
	}

	metrics.ObserveLogin(metrics.ResultSuccess, nil)
	s.logger.InfoContext(ctx, "login succeeded", "username", creds.Username, "role", string(role))
	return s.sessions.Snapshot(), nil
}

// Logout clears the session and its persisted copy.
func (s *AuthService) Logout(ctx context.Context) error {
	wasAuthenticated := s.sessions.Snapshot().IsAuthenticated()
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "session cleared but persisted copy remains", "error", err)
		return err
	}
	if wasAuthenticated {
		s.logger.InfoContext(ctx, "logged out")
	}
	return nil
}

// Session returns the current session snapshot.
func (s *AuthService) Session() domainauth.Session {
	return s.sessions.Snapshot()
}

func (s *AuthService) decodeRole(token string) (domainauth.Role, bool) {
	if s.decoder == nil {
		return "", false
	}
	raw, ok := s.decoder.DecodeRole(token)
	if !ok {
		return "", false
	}
	return domainauth.ParseRole(string(raw))
}

type plainMessages struct{}

func (plainMessages) Message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
