package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/target/clinic-portal/config"
	"github.com/target/clinic-portal/internal/adapters/filestore"
	"github.com/target/clinic-portal/internal/adapters/postgres"
	redisstore "github.com/target/clinic-portal/internal/adapters/redis"
	"github.com/target/clinic-portal/internal/adapters/sqlite"
	"github.com/target/clinic-portal/internal/ports"
)

// DefaultSQLiteFileName is used when no sqlite path is configured.
const DefaultSQLiteFileName = "session.db"

// Storage is the durable credential storage selected by configuration.
// Credentials is nil for the memory backend, which keeps the session in-process only.
type Storage struct {
	Backend     config.StorageBackend
	Credentials ports.CredentialStorage
	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error
	closers []func() error
}

// Close releases connections held by the backend.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// BuildCredentialStorage connects the configured storage backend.
func BuildCredentialStorage(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	st := &Storage{Backend: cfg.Storage.Backend, Health: func(context.Context) error { return nil }}
	var err error
	switch cfg.Storage.Backend {
	case config.StorageMemory:
		logger.WarnContext(ctx, "memory storage selected; the session will not survive a restart")
	case config.StorageRedis:
		err = st.useRedis(ctx, cfg, logger)
	case config.StorageSQLite:
		err = st.useSQLite(ctx, cfg.Storage.SQLitePath, logger)
	case config.StoragePostgres:
		err = st.usePostgres(ctx, cfg.Postgres, logger)
	case config.StorageFile, "":
		err = st.useFile(cfg.Storage.FilePath)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, errors.Join(err, st.Close())
	}

	logger.DebugContext(ctx, "credential storage ready", "backend", st.Backend.String())
	return st, nil
}

func (s *Storage) useFile(path string) error {
	if path == "" {
		p, err := filestore.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	s.Credentials = filestore.NewCredentialStore(path)
	s.Health = func(context.Context) error {
		_, err := os.Stat(filepath.Dir(path))
		if errors.Is(err, os.ErrNotExist) {
			// Created on first write.
			return nil
		}
		return err
	}
	return nil
}

func (s *Storage) useSQLite(ctx context.Context, path string, logger *slog.Logger) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}
		path = filepath.Join(home, ".clinic-portal", DefaultSQLiteFileName)
	}
	store, err := sqlite.Open(ctx, path, logger)
	if err != nil {
		return err
	}
	s.Credentials = store
	s.Health = store.Ping
	s.closers = append(s.closers, store.Close)
	return nil
}

func (s *Storage) useRedis(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) error {
	client, err := ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Close)
	s.Credentials = redisstore.NewCredentialStoreWithPrefix(client, cfg.Storage.RedisPrefix)
	s.Health = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return nil
}

func (s *Storage) usePostgres(ctx context.Context, cfg config.DBConfig, logger *slog.Logger) error {
	db, err := ConnectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	s.closers = append(s.closers, db.Close)

	store := postgres.NewCredentialStore(db)
	if cfg.RunMigrationsOnStart {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		logger.InfoContext(ctx, "database migrations completed")
	}
	s.Credentials = store
	s.Health = db.PingContext
	return nil
}
