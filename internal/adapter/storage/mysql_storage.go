package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/tarana-storefront/internal/domain"
)

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (m *MySQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := m.db.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query kv_store: %w", err)
	}
	return v, true, nil
}

func (m *MySQLStorage) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`, key, value)
	if err != nil {
		return fmt.Errorf("upsert kv_store: %w", err)
	}
	return nil
}

func (m *MySQLStorage) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM kv_store WHERE k = ?`, key); err != nil {
		return fmt.Errorf("delete kv_store: %w", err)
	}
	return nil
}

func EnsureMySQLSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v MEDIUMTEXT NOT NULL
		)`)
	return err
}

var _ domain.CartStorage = (*MySQLStorage)(nil)
