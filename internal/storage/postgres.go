package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgMigrations mirrors migrations for Postgres. Versions are shared so both
// backends report the same schema version.
var pgMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE contact_submissions (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    notified   BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX idx_contact_submissions_created ON contact_submissions(created_at DESC);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX idx_contact_submissions_pending ON contact_submissions(notified) WHERE notified = FALSE;
`,
	},
}

// NewPostgresPool connects to Postgres at connString, verifies the connection
// and runs any pending schema migrations.
func NewPostgresPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if err := runPgMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return pool, nil
}

func runPgMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("querying current schema version: %w", err)
	}

	for _, m := range pgMigrations {
		if m.version <= current {
			continue
		}
		if err := applyPgMigration(ctx, pool, m); err != nil {
			return err
		}
	}
	return nil
}

func applyPgMigration(ctx context.Context, pool *pgxpool.Pool, m migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.version, err)
	}

	if _, err := tx.Exec(ctx, m.sql); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("failed to rollback migration %d: %v", m.version, rbErr)
		}
		return fmt.Errorf("migration %d: %w", m.version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("failed to rollback migration %d: %v", m.version, rbErr)
		}
		return fmt.Errorf("recording migration %d: %w", m.version, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.version, err)
	}
	return nil
}
