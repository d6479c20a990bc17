package clinicapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// Fallback messages used when nothing better can be extracted from a failure.
const (
	LoginFallback   = "Login failed"
	RequestFallback = "Request failed"
)

// DefaultMessagePath locates the server's message in a structured error body.
const DefaultMessagePath = "message"

// HTTPError is a non-2xx response from the clinic API.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// MessageExtractor turns call failures into one user-facing message.
// The precedence is fixed: structured server message, raw string body,
// the error's own message, then the caller's fallback.
type MessageExtractor struct {
	path string
}

// NewMessageExtractor validates the JMESPath expression used to find the
// structured message. An empty path selects DefaultMessagePath.
func NewMessageExtractor(path string) (MessageExtractor, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultMessagePath
	}
	if _, err := jmespath.Compile(path); err != nil {
		return MessageExtractor{}, fmt.Errorf("compile message path %q: %w", path, err)
	}
	return MessageExtractor{path: path}, nil
}

// Message applies the precedence to err.
func (m MessageExtractor) Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if msg := m.structured(httpErr.Body); msg != "" {
			return msg
		}
		if msg := rawString(httpErr.Body); msg != "" {
			return msg
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func (m MessageExtractor) structured(body []byte) string {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}
	if _, ok := doc.(map[string]any); !ok {
		return ""
	}
	path := m.path
	if path == "" {
		path = DefaultMessagePath
	}
	found, err := jmespath.Search(path, doc)
	if err != nil {
		return ""
	}
	msg, _ := found.(string)
	return msg
}

// rawString returns a body that is a JSON string literal or plain text.
// Structured bodies without a message do not qualify.
func rawString(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var doc any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return trimmed
	}
	s, _ := doc.(string)
	return s
}

// UserMessage applies the default precedence with DefaultMessagePath.
func UserMessage(err error, fallback string) string {
	return MessageExtractor{path: DefaultMessagePath}.Message(err, fallback)
}
