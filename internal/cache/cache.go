// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores source responses in SQLite, keyed by request URL, so
// a re-run of a batch does not query the services again for publications
// that were already looked up.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed response cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at path and creates the schema
// if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		source TEXT NOT NULL,
		url TEXT NOT NULL,
		content_type TEXT,
		body BLOB NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (source, url)
	)`)
	return err
}

// Get returns the cached body and content type for (source, url). The
// boolean is false on a cache miss.
func (s *Store) Get(ctx context.Context, source, url string) ([]byte, string, bool, error) {
	var body []byte
	var contentType sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT body, content_type FROM responses WHERE source = ? AND url = ?`,
		source, url).Scan(&body, &contentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", false, nil
	}
	if err != nil {
		return nil, "", false, fmt.Errorf("reading cached response: %w", err)
	}
	return body, contentType.String, true, nil
}

// Put stores body under (source, url), replacing any previous entry.
func (s *Store) Put(ctx context.Context, source, url, contentType string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (source, url, content_type, body, fetched_at)
		 VALUES (?, ?, ?, ?, ?)`,
		source, url, contentType, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cached response: %w", err)
	}
	return nil
}

// Count returns the number of cached responses for source, or for every
// source when source is empty.
func (s *Store) Count(ctx context.Context, source string) (int, error) {
	query := `SELECT COUNT(*) FROM responses`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached responses: %w", err)
	}
	return n, nil
}
