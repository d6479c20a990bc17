package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))
	cfg.Sanitize()

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "message", cfg.API.ErrorMessagePath)
	assert.Equal(t, StorageFile, cfg.Storage.Backend)
	assert.Equal(t, "clinic:session:", cfg.Storage.RedisPrefix)
	assert.Equal(t, "127.0.0.1:3000", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	require.NoError(t, cfg.Validate())
}

func TestAppConfig_FromEnvironment(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
		"API_BASE_URL":           "https://clinic.example.com/",
		"API_TIMEOUT":            "100ms",
		"API_ERROR_MESSAGE_PATH": "error.detail",
		"STORAGE_BACKEND":        "SQLite",
		"STORAGE_SQLITE_PATH":    " /tmp/s.db ",
		"HTTP_ADDR":              ":9000",
		"LOG_LEVEL":              "WARNING",
		"LOG_FORMAT":             "Text",
		"METRICS_ENABLED":        "false",
		"REDIS_USE_CLUSTER":      "true",
		"REDIS_CLUSTER_NODES":    "a:1,b:2",
	}}))
	cfg.Sanitize()

	assert.Equal(t, "https://clinic.example.com", cfg.API.BaseURL)
	assert.Equal(t, time.Second, cfg.API.Timeout, "timeout is clamped to one second")
	assert.Equal(t, "error.detail", cfg.API.ErrorMessagePath)
	assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/s.db", cfg.Storage.SQLitePath)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
	assert.Equal(t, "text", cfg.Observability.LogFormat)
	assert.False(t, cfg.Observability.MetricsEnabled)
	assert.True(t, cfg.Redis.UseCluster)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Redis.ClusterNodes)
}

func TestAppConfig_RejectsUnknownBackend(t *testing.T) {
	var cfg AppConfig
	err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{"STORAGE_BACKEND": "etcd"}})
	assert.Error(t, err)
}

func TestParseStorageBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageBackend
		wantErr bool
	}{
		{"file", StorageFile, false},
		{" Redis ", StorageRedis, false},
		{"postgres", StoragePostgres, false},
		{"memory", StorageMemory, false},
		{"", StorageFile, false},
		{"dynamo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStorageBackend(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestAPIConfig_Validate(t *testing.T) {
	tests := map[string]bool{
		"http://localhost:8080": true,
		"https://api.clinic.io": true,
		"":                      false,
		"localhost:8080":        false,
		"ftp://clinic":          false,
		"http://":               false,
	}
	for raw, ok := range tests {
		c := APIConfig{BaseURL: raw}
		if ok {
			assert.NoError(t, c.Validate(), raw)
		} else {
			assert.Error(t, c.Validate(), raw)
		}
	}
}
