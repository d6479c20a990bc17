package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const minAPITimeout = time.Second

// APIConfig configures the clinic API client.
type APIConfig struct {
	// BaseURL is the clinic API root every endpoint path is appended to.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// Timeout bounds a single API call.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// ErrorMessagePath is a JMESPath expression locating the server's message
	// in a structured error body.
	ErrorMessagePath string `env:"API_ERROR_MESSAGE_PATH" envDefault:"message"`
}

// Sanitize trims the base URL and clamps the timeout.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout < minAPITimeout {
		c.Timeout = minAPITimeout
	}
	c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath)
	if c.ErrorMessagePath == "" {
		c.ErrorMessagePath = "message"
	}
}

// Validate checks that the base URL is an absolute http(s) URL.
func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute http or https URL", c.BaseURL)
	}
	return nil
}
