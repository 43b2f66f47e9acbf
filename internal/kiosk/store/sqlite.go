package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/kioskd/internal/dbx"
)

// SQLiteKV implements KV using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteKV struct {
	db dbx.DBTX
}

// NewSQLiteKV returns a new SQLiteKV bound to the given DBTX.
func NewSQLiteKV(db dbx.DBTX) *SQLiteKV {
	return &SQLiteKV{db: db}
}

func (r *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kiosk_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kiosk_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set state[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kiosk_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete state[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM kiosk_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate state rows: %w", err)
	}

	return result, nil
}
