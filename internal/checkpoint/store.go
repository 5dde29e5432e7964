// Package checkpoint persists per-file read offsets so an interrupted run
// can resume where it stopped.
package checkpoint

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Store saves and loads read offsets keyed by file identity and the
// fingerprint strategy that produced it. The same file yields different keys
// under different strategies, so both are part of the lookup.
type Store interface {
	// Save stores the offset for the file identified by id and strategy.
	Save(id string, strategy string, path string, offset int64) error

	// Load retrieves the offset for the file identified by id and strategy.
	// The boolean reports whether a checkpoint exists.
	Load(id string, strategy string) (int64, bool, error)

	// Delete removes the checkpoint for the file identified by id and strategy.
	Delete(id string, strategy string) error

	// Close releases the underlying database handle.
	Close() error
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite-backed store at
// dbPath and applies pending migrations.
func NewSQLiteStore(dbPath string) (Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	initMigrations()

	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}

	goose.SetTableName("skimread_db_version")

	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Save(id string, strategy string, path string, offset int64) error {
	_, err := s.db.Exec(
		`INSERT INTO checkpoints (id, strategy, path, offset, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id, strategy) DO UPDATE SET
		 offset = excluded.offset,
		 path = excluded.path,
		 updated_at = CURRENT_TIMESTAMP`,
		id, strategy, path, offset)

	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	return nil
}

func (s *sqliteStore) Load(id string, strategy string) (int64, bool, error) {
	row := s.db.QueryRow(
		`SELECT offset FROM checkpoints WHERE id = ? AND strategy = ?`,
		id, strategy)

	var offset int64
	if err := row.Scan(&offset); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	return offset, true, nil
}

func (s *sqliteStore) Delete(id string, strategy string) error {
	_, err := s.db.Exec(
		`DELETE FROM checkpoints WHERE id = ? AND strategy = ?`,
		id, strategy)

	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
