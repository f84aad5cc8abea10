package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Get when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Record is one completed run: the input path plus both subtitle documents.
type Record struct {
	ID         int64
	AudioPath  string
	Generated  string
	Translated string
}

// Store manages record persistence backed by SQLite.
type Store struct {
	db       *sql.DB
	path     string
	lock     *flock.Flock
	lockPath string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	lockRetryDelay          = 25 * time.Millisecond
	lockTimeout             = 10 * time.Second
)

// Open creates or connects to the record database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("open store: database path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	lockPath := path + ".lock"
	store := &Store{db: db, path: path, lock: flock.New(lockPath), lockPath: lockPath}
	if err := store.withWriteLock(context.Background(), func(ctx context.Context) error {
		return store.execWithoutResultRetry(ctx, schemaSQL)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append inserts a record and returns its id. Concurrent writers, including
// other processes, are serialized through the store's lock file.
func (s *Store) Append(ctx context.Context, rec Record) (int64, error) {
	var id int64
	err := s.withWriteLock(ctx, func(ctx context.Context) error {
		res, err := s.execWithRetry(ctx,
			`INSERT INTO subtitles (audio_file, generated_subtitles, translated_subtitles) VALUES (?, ?, ?)`,
			rec.AudioPath, rec.Generated, rec.Translated,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	return id, nil
}

// List returns up to limit records, newest first. A non-positive limit returns all records.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, COALESCE(audio_file, ''), COALESCE(generated_subtitles, ''), COALESCE(translated_subtitles, '')
		FROM subtitles ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.AudioPath, &rec.Generated, &rec.Translated); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, COALESCE(audio_file, ''), COALESCE(generated_subtitles, ''), COALESCE(translated_subtitles, '')
		FROM subtitles WHERE id = ?`, id)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.AudioPath, &rec.Generated, &rec.Translated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	return &rec, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM subtitles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) withWriteLock(ctx context.Context, fn func(context.Context) error) error {
	ctx = ensureContext(ctx)
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire store lock %s: %w", s.lockPath, err)
	}
	if !locked {
		return fmt.Errorf("acquire store lock %s: timed out", s.lockPath)
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn(ctx)
}
