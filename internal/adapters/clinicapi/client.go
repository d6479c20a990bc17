// Package clinicapi is the HTTP client for the clinic API: the login exchange
// and the resource endpoints behind the dashboards.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/clinic-portal/internal/ports"
)

// DefaultTimeout bounds a single API call when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failure body is kept for message extraction.
const maxErrorBody = 64 << 10

// ErrEmptyToken is returned when the login endpoint answers 2xx without a token.
var ErrEmptyToken = errors.New("login response did not include a token")

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	BaseURL string
	// HTTPClient carries the authenticating transport. A plain client with
	// DefaultTimeout is used when nil.
	HTTPClient *http.Client
	Messages   MessageExtractor
	Logger     *slog.Logger
}

// Client calls the clinic API.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	messages MessageExtractor
	logger   *slog.Logger
}

var (
	_ ports.LoginGateway  = (*Client)(nil)
	_ ports.ErrorMessages = (*Client)(nil)
	_ ports.ErrorMessages = MessageExtractor{}
)

// NewClient validates the base URL and builds a Client.
func NewClient(opts ClientOptions) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errors.New("clinic api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", raw)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msgs := opts.Messages
	if msgs.path == "" {
		msgs.path = DefaultMessagePath
	}

	return &Client{
		baseURL:  base,
		http:     hc,
		messages: msgs,
		logger:   logger.With("component", "clinicapi"),
	}, nil
}

// Message applies the client's message precedence to a failed call.
func (c *Client) Message(err error, fallback string) string {
	return c.messages.Message(err, fallback)
}

// BaseURL returns the API root every path is resolved against.
func (c *Client) BaseURL() string { return c.baseURL.String() }

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
}

// do sends one JSON request. Non-2xx responses become *HTTPError; transport
// errors are returned unchanged.
func (c *Client) do(ctx context.Context, r request) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api call failed", "method", r.method, "path", r.path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.DebugContext(ctx, "api call rejected",
			"method", r.method, "path", r.path, "status", resp.StatusCode)
		return &HTTPError{Method: r.method, Path: r.path, StatusCode: resp.StatusCode, Body: data}
	}

	if r.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", r.method, r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}
