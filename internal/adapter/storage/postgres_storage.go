package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/tarana-storefront/internal/domain"
)

type PostgresStorage struct {
	Pool *pgxpool.Pool
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{Pool: pool}
}

func (r *PostgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.Pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *PostgresStorage) Set(ctx context.Context, key, value string) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO kv_store(key, value) VALUES($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

func (r *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	return err
}

var _ domain.CartStorage = (*PostgresStorage)(nil)

// EnsurePostgresSchema creates the key-value table if it is missing. Values
// are text, not jsonb: a corrupt payload has to be stored as-is.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS kv_store (
  key text PRIMARY KEY,
  value text NOT NULL
);`)
	return err
}
