package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfigStore is a durable key-value mapping for process-wide settings.
// Keys have no TTL and are never deleted, only overwritten.
type ConfigStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetDefault writes the value only when the key is absent, so explicit
	// set actions always win over seeded env defaults.
	SetDefault(ctx context.Context, key, value string) error
}

type configStore struct {
	pool *pgxpool.Pool
}

// NewConfigStore instantiates the pgx-backed config store.
func NewConfigStore(pool *pgxpool.Pool) ConfigStore {
	return &configStore{pool: pool}
}

func (s *configStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM bot_config WHERE key=$1`
	var value string
	if err := s.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *configStore) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO bot_config (key, value, updated_at) VALUES ($1,$2,NOW())
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`
	_, err := s.pool.Exec(ctx, query, key, value)
	return err
}

func (s *configStore) SetDefault(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO bot_config (key, value, updated_at) VALUES ($1,$2,NOW())
        ON CONFLICT (key) DO NOTHING`
	_, err := s.pool.Exec(ctx, query, key, value)
	return err
}
