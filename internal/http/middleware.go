package httpx

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/target/clinic-portal/internal/domain/access"
	"github.com/target/clinic-portal/internal/observability/metrics"
	"github.com/target/clinic-portal/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.String("request_id", w.Header().Get(headerRequestID)),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID echoes the caller's X-Request-ID or assigns a new one.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAccess evaluates table against a fresh session snapshot on every
// request. Denied browser navigations are redirected with 303; JSON callers
// get 401 or 403 instead.
func RequireAccess(table *access.Table, sessions ports.SessionSource, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sessions.Snapshot()
			decision := table.Evaluate(snap, r.URL.Path)

			_, route, _ := table.Lookup(r.URL.Path)
			if route == "" {
				route = "unknown"
			}
			metrics.ObserveGuard(route, string(decision.Outcome), string(decision.Reason))
			logger.DebugContext(r.Context(), "access decision",
				slog.String("path", r.URL.Path),
				slog.String("outcome", string(decision.Outcome)),
				slog.String("reason", string(decision.Reason)),
				slog.String("role", string(snap.Role)),
			)

			if !decision.Admitted() {
				deny(w, r, decision)
				return
			}

			ctx := SetSessionInContext(r.Context(), snap)
			ctx = setDecisionInContext(ctx, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, d access.Decision) {
	if wantsJSON(r) {
		switch d.Reason {
		case access.ReasonUnauthenticated:
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: errCodeAuthRequired,
				Err:     errors.New("authentication required"),
			})
			return
		case access.ReasonWrongRole:
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: errCodeInsufficientPerm,
				Err:     errors.New("insufficient permissions"),
			})
			return
		}
	}
	http.Redirect(w, r, d.Target, http.StatusSeeOther)
}

// wantsJSON reports whether the caller asked for JSON rather than a page.
func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == contentTypeJSON {
			return true
		}
	}
	return false
}
