// Package state persists build history in a local SQLite database.
// Recording is best-effort: a broken state database must never fail a
// build, so callers log store errors and continue.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded build run.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Mode           string
	Status         string
	ModulesTotal   int
	PagesWritten   int
	PagesUnchanged int
	Failures       int
}

// PageRecord tracks the last generated state of one page.
type PageRecord struct {
	Module      string
	Fingerprint string
	Converter   string
	RunID       string
	UpdatedAt   time.Time
}

// Store is a SQLite-backed build state store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and if needed creates) the state database at dbPath.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		mode TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		modules_total INTEGER NOT NULL,
		pages_written INTEGER NOT NULL,
		pages_unchanged INTEGER NOT NULL,
		failures INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS pages (
		module TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		converter TEXT NOT NULL,
		run_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a completed run.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, mode, status, modules_total, pages_written, pages_unchanged, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Mode, run.Status,
		run.ModulesTotal, run.PagesWritten, run.PagesUnchanged, run.Failures,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// LastRun returns the most recently started run, if any.
func (s *Store) LastRun(ctx context.Context) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, mode, status, modules_total, pages_written, pages_unchanged, failures
		 FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)

	var run Run
	var started, finished int64
	err := row.Scan(&run.ID, &started, &finished, &run.Mode, &run.Status,
		&run.ModulesTotal, &run.PagesWritten, &run.PagesUnchanged, &run.Failures)
	if err == sql.ErrNoRows {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("scan run: %w", err)
	}

	run.StartedAt = time.Unix(started, 0)
	run.FinishedAt = time.Unix(finished, 0)
	return run, true, nil
}

// UpsertPage stores the latest generated state of a page.
func (s *Store) UpsertPage(ctx context.Context, rec PageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (module, fingerprint, converter, run_id, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(module) DO UPDATE SET
		   fingerprint = excluded.fingerprint,
		   converter = excluded.converter,
		   run_id = excluded.run_id,
		   updated_at = excluded.updated_at`,
		rec.Module, rec.Fingerprint, rec.Converter, rec.RunID, rec.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	return nil
}

// Page returns the stored record for a module, if present.
func (s *Store) Page(ctx context.Context, moduleName string) (PageRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT module, fingerprint, converter, run_id, updated_at FROM pages WHERE module = ?`,
		moduleName)

	var rec PageRecord
	var updated int64
	err := row.Scan(&rec.Module, &rec.Fingerprint, &rec.Converter, &rec.RunID, &updated)
	if err == sql.ErrNoRows {
		return PageRecord{}, false, nil
	}
	if err != nil {
		return PageRecord{}, false, fmt.Errorf("scan page: %w", err)
	}

	rec.UpdatedAt = time.Unix(updated, 0)
	return rec, true, nil
}

// Pages returns all stored page records ordered by module name.
func (s *Store) Pages(ctx context.Context) ([]PageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT module, fingerprint, converter, run_id, updated_at FROM pages ORDER BY module`)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var records []PageRecord
	for rows.Next() {
		var rec PageRecord
		var updated int64
		if err := rows.Scan(&rec.Module, &rec.Fingerprint, &rec.Converter, &rec.RunID, &updated); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		rec.UpdatedAt = time.Unix(updated, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// DeletePage removes the record for a module.
func (s *Store) DeletePage(ctx context.Context, moduleName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE module = ?`, moduleName); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
