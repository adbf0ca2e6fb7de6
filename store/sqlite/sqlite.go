/*
Package sqlite provides a SQLite-backed implementation of statutory.Store.

PURPOSE:
  Persists the source documents of statutory table sets (ISR tables, RESICO
  bands, vacation tiers, constants) so that an operator can publish a new
  year's values without a redeploy. The calculators never read the database:
  documents are parsed by factory and swapped into the statutory.Registry.

KEY TABLES:
  table_sets: one row per statutory year, raw JSON/YAML document, version
              counter bumped on every save

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so the reload scheduler's
  reads never block on an operator's write.

USAGE:
  store, err := sqlite.New("./data/milana.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  sets, skipped, err := factory.LoadFromStore(ctx, store)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - statutory/store.go: Interface definition
  - statutory/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/milana/payroll-engine/generic"
	"github.com/milana/payroll-engine/statutory"
)

var log = logrus.WithField("module", "sqlite")

// Store implements statutory.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if strings.HasPrefix(dbPath, ":memory:") {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.WithField("path", dbPath).Debug("database opened")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Statutory table sets (one document per year)
	CREATE TABLE IF NOT EXISTS table_sets (
		year INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		format TEXT NOT NULL,
		document TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_table_sets_updated
		ON table_sets(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TABLE SET STORE
// =============================================================================

// SaveTableSet inserts the document for rec.Year or replaces it, bumping the
// version. It returns the stored version.
func (s *Store) SaveTableSet(ctx context.Context, rec statutory.TableSetRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO table_sets (year, name, format, document, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			name = excluded.name,
			format = excluded.format,
			document = excluded.document,
			version = table_sets.version + 1,
			updated_at = excluded.updated_at
	`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, query,
		rec.Year, rec.Name, rec.Format, rec.Document, now, now,
	); err != nil {
		return 0, fmt.Errorf("save table set %d: %w", rec.Year, err)
	}

	var version int
	if err := tx.QueryRowContext(ctx, "SELECT version FROM table_sets WHERE year = ?", rec.Year).Scan(&version); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	log.WithFields(logrus.Fields{"year": rec.Year, "version": version}).Info("table set saved")
	return version, nil
}

// GetTableSet retrieves the document for a year.
func (s *Store) GetTableSet(ctx context.Context, year int) (*statutory.TableSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := scanTableSet(s.db.QueryRowContext(ctx,
		"SELECT year, name, format, document, version, created_at, updated_at FROM table_sets WHERE year = ?",
		year,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTableSets returns all documents ordered by year.
func (s *Store) ListTableSets(ctx context.Context) ([]statutory.TableSetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT year, name, format, document, version, created_at, updated_at FROM table_sets ORDER BY year",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []statutory.TableSetRecord
	for rows.Next() {
		rec, err := scanTableSet(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteTableSet removes the document for a year.
func (s *Store) DeleteTableSet(ctx context.Context, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM table_sets WHERE year = ?", year)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("year %d: %w", year, generic.ErrTableSetNotFound)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM table_sets")
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTableSet(row scanner) (statutory.TableSetRecord, error) {
	var rec statutory.TableSetRecord
	var createdAt, updatedAt string
	if err := row.Scan(&rec.Year, &rec.Name, &rec.Format, &rec.Document, &rec.Version, &createdAt, &updatedAt); err != nil {
		return rec, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

var _ statutory.Store = (*Store)(nil)
