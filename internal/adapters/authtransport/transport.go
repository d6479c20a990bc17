// Package authtransport attaches the session credential to outbound API requests.
package authtransport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/target/clinic-portal/internal/observability/metrics"
	"github.com/target/clinic-portal/internal/ports"
)

// HeaderRequestID correlates a client call with server logs.
const HeaderRequestID = "X-Request-ID"

// Transport is an http.RoundTripper that reads the credential fresh on every
// request and never writes to the session.
type Transport struct {
	// Base performs the request. http.DefaultTransport is used when nil.
	Base http.RoundTripper
	// Sessions is consulted first. Storage is the fallback when Sessions is nil.
	Sessions ports.SessionSource
	Storage  ports.CredentialStorage
	Logger   *slog.Logger
}

// RoundTrip clones req, sets or strips Authorization, and sends it.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if credential := t.credential(req); credential != "" {
		(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"}).SetAuthHeader(out)
	} else {
		out.Header.Del("Authorization")
	}
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := t.base().RoundTrip(out)
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	metrics.ObserveAPIRequest(out.Method, code, time.Since(start))
	return resp, err
}

func (t *Transport) credential(req *http.Request) string {
	if t.Sessions != nil {
		return t.Sessions.Snapshot().Credential
	}
	if t.Storage == nil {
		return ""
	}
	token, err := t.Storage.Get(req.Context(), ports.KeyToken)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			t.logger().WarnContext(req.Context(), "credential lookup failed; sending unauthenticated", "error", err)
		}
		return ""
	}
	return token
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// NewClient wraps t in an http.Client with the given timeout.
func NewClient(t *Transport, timeout time.Duration) *http.Client {
	return &http.Client{Transport: t, Timeout: timeout}
}
