package httpx

import (
	"context"

	"github.com/target/clinic-portal/internal/domain/access"
	domainauth "github.com/target/clinic-portal/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// decisionKey carries the guard decision that admitted the request.
type decisionKey struct{}

// SetSessionInContext returns a child context carrying the snapshot the guard evaluated.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the snapshot stored by the guard and whether one was present.
func GetSessionFromContext(ctx context.Context) (domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(domainauth.Session)
	return s, ok
}

func setDecisionInContext(ctx context.Context, d access.Decision) context.Context {
	return context.WithValue(ctx, decisionKey{}, d)
}

// GetDecisionFromContext returns the guard decision for the request, if any.
func GetDecisionFromContext(ctx context.Context) (access.Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(access.Decision)
	return d, ok
}
