package httpx

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	apperrors "github.com/target/clinic-portal/internal/errors"
	"github.com/target/clinic-portal/internal/ports"
	"github.com/target/clinic-portal/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds ports.Credentials) (domainauth.Session, error)
	Logout(ctx context.Context) error
	Session() domainauth.Session
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// SessionView is the public rendering of a session. The credential is never exposed.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	Home          string `json:"home,omitempty"`
}

// NewSessionView renders s for responses.
func NewSessionView(s domainauth.Session) SessionView {
	v := SessionView{
		Authenticated: s.IsAuthenticated(),
		Role:          string(s.Role),
		Status:        string(s.Status),
		Error:         s.Error,
	}
	if s.IsAuthenticated() && s.Role.Valid() {
		v.Home = s.Role.HomePath()
	}
	return v
}

// LoginPage reports the session state, or sends an authenticated session home.
// GET /login.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	s := h.Svc.Session()
	if s.IsAuthenticated() && s.Role.Valid() && !wantsJSON(r) {
		http.Redirect(w, r, s.Role.HomePath(), http.StatusSeeOther)
		return
	}
	WriteJSON(w, http.StatusOK, NewSessionView(s))
}

// Login submits credentials from a JSON or form body.
// POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(w, r)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	s, err := h.Svc.Login(r.Context(), creds)
	if err != nil {
		h.writeLoginFailure(w, r, s, err)
		return
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, NewSessionView(s))
		return
	}
	http.Redirect(w, r, s.Role.HomePath(), http.StatusSeeOther)
}

func (h *AuthHandlers) writeLoginFailure(w http.ResponseWriter, r *http.Request, s domainauth.Session, err error) {
	var loginErr *service.LoginError
	switch {
	case errors.As(err, &loginErr):
		if !wantsJSON(r) {
			http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: errCodeLoginFailed, Err: loginErr})
	case errors.Is(err, service.ErrUnknownRole):
		if !wantsJSON(r) {
			http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: errCodeUnknownRole, Err: errors.New(s.Error)})
	case errors.Is(err, service.ErrLoginInProgress):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: errCodeLoginInProgress, Err: err})
	case errors.Is(err, service.ErrStaleSession):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: errCodeStaleSession, Err: err})
	default:
		h.logger().ErrorContext(r.Context(), "login failed unexpectedly", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal", Err: errors.New("login failed")})
	}
}

// Logout clears the session. It is always allowed and idempotent.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context()); err != nil {
		// The in-memory session is already cleared.
		h.logger().WarnContext(r.Context(), "logout could not remove persisted session", "error", err)
	}
	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, NewSessionView(h.Svc.Session()))
		return
	}
	http.Redirect(w, r, domainauth.LoginPath, http.StatusSeeOther)
}

func readCredentials(w http.ResponseWriter, r *http.Request) (ports.Credentials, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var creds ports.Credentials

	switch mt {
	case contentTypeJSON:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := decodeStrict(r, &creds); err != nil {
			return creds, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid login body")
		}
	case contentTypeForm, "multipart/form-data", "":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return creds, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid login form")
		}
		creds.Username = r.PostFormValue("username")
		creds.Password = r.PostFormValue("password")
	default:
		return creds, apperrors.Validationf("unsupported content type %q", mt)
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return creds, apperrors.ValidationField("username", "username is required")
	}
	if creds.Password == "" {
		return creds, apperrors.ValidationField("password", "password is required")
	}
	return creds, nil
}
