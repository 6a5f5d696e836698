package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/MrJamesThe3rd/bye2money/internal/kv"
)

// NotifyChannel is the LISTEN/NOTIFY channel a Set announces the changed key on.
const NotifyChannel = "kv_changes"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db     *sql.DB
	origin string
}

// New returns a Store whose change notifications carry origin, so the
// writing process can tell its own writes apart.
func New(db *sql.DB, origin string) *Store {
	return &Store{db: db, origin: origin}
}

// Migrate brings the kv_store table up to date.
func Migrate(db *sql.DB) error {
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("creating pgx driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return []byte(value), nil
}

// Set upserts the value and notifies listeners of the key in the same
// transaction, so the notification is only delivered once the write commits.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := dbTx.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	payload, err := Notification{Key: key, Origin: s.origin}.Encode()
	if err != nil {
		return fmt.Errorf("encoding notification for %s: %w", key, err)
	}

	if _, err := dbTx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, payload); err != nil {
		return fmt.Errorf("notifying change of %s: %w", key, err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

var _ kv.Store = (*Store)(nil)
