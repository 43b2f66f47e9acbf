package server

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/avolkov/kioskd/internal/common"
	"github.com/avolkov/kioskd/internal/server/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// SnapshotRepository stores the single canonical snapshot document the
// kiosks sync against. Every upload replaces it wholesale.
type SnapshotRepository interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, payload []byte, lastUpdated int64) error
}

// PostgresRepository keeps the snapshot in one jsonb row.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenDatabase connects to Postgres and applies pending migrations.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snapshot db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}

	return db, nil
}

// Get returns the stored snapshot document, or common.ErrNotFound when no
// kiosk has pushed yet.
func (r *PostgresRepository) Get(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return payload, nil
}

// Put replaces the stored snapshot.
func (r *PostgresRepository) Put(ctx context.Context, payload []byte, lastUpdated int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, payload, last_updated, updated_at) VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, last_updated = excluded.last_updated, updated_at = now()
	`, payload, lastUpdated)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}
