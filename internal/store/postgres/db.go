// Package postgres is the production store.Repository implementation:
// plain $n-placeholder SQL, sql.ErrNoRows for "nothing yet", row-locking
// transactions for read-modify-write sequences.
package postgres

import (
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a *sql.DB scoped to a single user's schema or connection.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and verifies it with a ping.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenForUser connects to dsn with its search_path pinned to a per-user
// schema and ensures that schema's tables exist: each user owns an
// exclusive Postgres schema. The search_path is carried in the
// connection string's options parameter so it applies to every pooled
// connection, not just the one that happened to run a bare SET.
// schemaName must already be sanitized by the caller.
func OpenForUser(dsn, schemaName string) (*Store, error) {
	scoped, err := withSearchPath(dsn, schemaName)
	if err != nil {
		return nil, fmt.Errorf("build per-user dsn: %w", err)
	}

	bootstrap, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	_, createErr := bootstrap.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %q`, schemaName))
	bootstrap.Close()
	if createErr != nil {
		return nil, fmt.Errorf("create user schema: %w", createErr)
	}

	db, err := sql.Open("postgres", scoped)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// withSearchPath appends a libpq "options" query parameter pinning
// search_path to schemaName, so every connection the pool opens lands in
// the right schema.
func withSearchPath(dsn, schemaName string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("options", fmt.Sprintf("-c search_path=%s", schemaName))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EnsureSchema creates every table this package needs if it does not
// already exist, idempotently.
func (s *Store) EnsureSchema() error {
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
