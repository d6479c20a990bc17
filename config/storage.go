package config

import (
	"fmt"
	"strings"
)

// StorageBackend selects where the session credential and role are persisted.
type StorageBackend string

const (
	StorageFile     StorageBackend = "file"
	StorageRedis    StorageBackend = "redis"
	StorageSQLite   StorageBackend = "sqlite"
	StoragePostgres StorageBackend = "postgres"
	StorageMemory   StorageBackend = "memory"
)

// ParseStorageBackend accepts a backend name case-insensitively.
func ParseStorageBackend(s string) (StorageBackend, error) {
	b := StorageBackend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case StorageFile, StorageRedis, StorageSQLite, StoragePostgres, StorageMemory:
		return b, nil
	case "":
		return StorageFile, nil
	default:
		return "", fmt.Errorf("unknown storage backend %q (want file, redis, sqlite, postgres, or memory)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (b *StorageBackend) UnmarshalText(text []byte) error {
	parsed, err := ParseStorageBackend(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b StorageBackend) String() string { return string(b) }

// StorageConfig configures durable session storage.
type StorageConfig struct {
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"file"`

	// FilePath is the JSON document used by the file backend.
	// Empty selects ~/.clinic-portal/session.json.
	FilePath string `env:"STORAGE_FILE_PATH"`

	// SQLitePath is the database file used by the sqlite backend.
	// Empty selects ~/.clinic-portal/session.db.
	SQLitePath string `env:"STORAGE_SQLITE_PATH"`

	// RedisPrefix namespaces the keys written by the redis backend.
	RedisPrefix string `env:"STORAGE_REDIS_PREFIX" envDefault:"clinic:session:"`
}

// Sanitize trims paths and restores the default backend.
func (c *StorageConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = StorageFile
	}
	c.FilePath = strings.TrimSpace(c.FilePath)
	c.SQLitePath = strings.TrimSpace(c.SQLitePath)
	if strings.TrimSpace(c.RedisPrefix) == "" {
		c.RedisPrefix = "clinic:session:"
	}
}
