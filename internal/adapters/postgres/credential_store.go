// Package postgres stores session credentials in a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/target/clinic-portal/internal/errors"
	"github.com/target/clinic-portal/internal/migrate"
	"github.com/target/clinic-portal/internal/ports"
)

var _ ports.CredentialStorage = (*CredentialStore)(nil)

// CredentialStore keeps credential entries in the credentials table.
// A missing table reads as an empty store.
type CredentialStore struct {
	DB *sql.DB
}

// NewCredentialStore creates a new CredentialStore.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{DB: db}
}

// Migrate creates the credentials table when it does not exist.
func (s *CredentialStore) Migrate(ctx context.Context) error {
	if err := migrate.Run(ctx, s.DB); err != nil {
		return fmt.Errorf("migrate credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = $1`, key).Scan(&value)
	if err != nil {
		mapped := apperrors.MapDBError(err)
		if apperrors.IsNotFound(mapped) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("get credential %s: %w", key, mapped)
	}
	return value, nil
}

func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return apperrors.ValidationField("key", "credential key cannot be empty")
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("set credential %s: %w", key, apperrors.MapDBError(err))
	}
	return nil
}

func (s *CredentialStore) Remove(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM credentials WHERE key = $1`, key)
	if err == nil {
		return nil
	}
	mapped := apperrors.MapDBError(err)
	if apperrors.IsNotFound(mapped) {
		return nil
	}
	return fmt.Errorf("remove credential %s: %w", key, mapped)
}
