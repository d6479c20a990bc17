package clinicapi

import (
	"context"
	"net/http"

	"github.com/target/clinic-portal/internal/ports"
)

// LoginPath is the credential exchange endpoint.
const LoginPath = "/api/auth/login"

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. Failures are returned
// unwrapped so callers can extract the server's message.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	var out loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   LoginPath,
		body:   creds,
		out:    &out,
	})
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", ErrEmptyToken
	}
	return out.Token, nil
}
