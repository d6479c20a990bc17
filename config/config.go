package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Clinic API client configuration
//   - storage.go: Durable session storage configuration
//   - database.go: Postgres and Redis connection configuration
//   - http.go: Local route layer configuration
//   - observability.go: Logging and metrics configuration
type AppConfig struct {
	// Clinic API configuration
	API APIConfig

	// Durable session storage configuration
	Storage StorageConfig

	// Database configuration, used by the postgres and redis storage backends
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Storage.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports configuration that cannot be used after sanitizing.
func (c *AppConfig) Validate() error {
	return c.API.Validate()
}
