package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// schemaSQL creates the two tables the ingester has always written. It
// stays compatible with databases made by earlier releases.
//
//go:embed schema.sql
var schemaSQL string

// ErrStorageInit wraps every failure to open or initialize the database.
var ErrStorageInit = errors.New("storage initialization failed")

// pragmas are applied on every open, in order.
var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
}

// migration upgrades the schema to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations run in order on databases whose user_version is below their
// version. Version 0 is the base schema in schema.sql.
var migrations = []migration{
	{
		version: 1,
		name:    "ingest_runs",
		stmt: `
			CREATE TABLE IF NOT EXISTS ingest_runs (
				id TEXT PRIMARY KEY,
				log_path TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT NOT NULL,
				lines_read INTEGER NOT NULL,
				duplicate_lines INTEGER NOT NULL,
				blocks_ingested INTEGER NOT NULL,
				duplicate_timestamps INTEGER NOT NULL,
				malformed_blocks INTEGER NOT NULL,
				truncated_blocks INTEGER NOT NULL
			)`,
	},
}

// Store holds the summary table, the processed-line ledger and the run
// history in one SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at path and brings its schema up
// to date. path may be ":memory:" for a throwaway database.
//
// Opening is idempotent. All errors wrap ErrStorageInit.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", ErrStorageInit, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connect to database: %w", ErrStorageInit, err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageInit, err)
	}

	return &Store{db: db}, nil
}

// configure applies pragmas, the base schema and pending migrations.
func configure(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		if err := migrate(db, m); err != nil {
			return err
		}
		version = m.version
	}

	return nil
}

// migrate applies m and records its version in one transaction.
func migrate(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.Exec(m.stmt); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("migration %d (%s): set version: %w", m.version, m.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %d (%s): commit: %w", m.version, m.name, err)
	}
	return nil
}

// Close releases the database. Safe on a zero Store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
