package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// kvSchema is created on demand by EnsureSchema.  Keys are short
// collection names, values whole JSON documents.
const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
    k          VARCHAR(191) NOT NULL PRIMARY KEY,
    v          LONGTEXT     NOT NULL,
    updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQL keeps every key as one row of the kv_store table.
type MySQL struct {
	DB *sql.DB
}

// NewMySQL wraps an open database handle.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{DB: db} }

// EnsureSchema creates the kv_store table when it does not exist.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	if _, err := m.DB.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("mysql storage: create kv_store: %w", err)
	}
	return nil
}

func (m *MySQL) Get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := m.DB.QueryRowContext(ctx, "SELECT v FROM kv_store WHERE k = ? LIMIT 1", key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mysql storage: get %s: %w", key, err)
	}
	return []byte(v), nil
}

func (m *MySQL) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.DB.ExecContext(ctx,
		"INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)",
		key, string(value))
	if err != nil {
		return fmt.Errorf("mysql storage: set %s: %w", key, err)
	}
	return nil
}

func (m *MySQL) Delete(ctx context.Context, key string) error {
	if _, err := m.DB.ExecContext(ctx, "DELETE FROM kv_store WHERE k = ?", key); err != nil {
		return fmt.Errorf("mysql storage: delete %s: %w", key, err)
	}
	return nil
}

func (m *MySQL) Close() error { return m.DB.Close() }
