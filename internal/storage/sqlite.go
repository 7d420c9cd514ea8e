// Package storage persists the crawl's two key-value artifacts —
// url→text contents and url→referenced-urls — to SQLite, so a query
// process can reconstitute them without re-crawling. Adapted from the
// teacher's storage/sqlite.go schema-and-exec style.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a SQLite database holding the persisted crawl artifacts.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS contents (
	url  TEXT PRIMARY KEY,
	text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS references_ (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	PRIMARY KEY (source, target)
);

CREATE INDEX IF NOT EXISTS idx_references_source ON references_(source);
`

// Open creates (or reopens) the SQLite database at path and ensures its
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DumpContents persists the url→text mapping, replacing any existing
// rows for the same URLs.
func (s *Store) DumpContents(contents map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO contents (url, text) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for url, text := range contents {
		if _, err := stmt.Exec(url, text); err != nil {
			return fmt.Errorf("insert contents row for %s: %w", url, err)
		}
	}

	return tx.Commit()
}

// DumpReferences persists the url→referenced-urls mapping.
func (s *Store) DumpReferences(references map[string][]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO references_ (source, target) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for source, targets := range references {
		for _, target := range targets {
			if _, err := stmt.Exec(source, target); err != nil {
				return fmt.Errorf("insert reference row for %s: %w", source, err)
			}
		}
	}

	return tx.Commit()
}

// LoadContents reconstitutes the full url→text mapping.
func (s *Store) LoadContents() (map[string]string, error) {
	rows, err := s.db.Query("SELECT url, text FROM contents")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var url, text string
		if err := rows.Scan(&url, &text); err != nil {
			return nil, err
		}
		out[url] = text
	}
	return out, rows.Err()
}

// LoadReferences reconstitutes the full url→referenced-urls mapping.
func (s *Store) LoadReferences() (map[string][]string, error) {
	rows, err := s.db.Query("SELECT source, target FROM references_")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var source, target string
		if err := rows.Scan(&source, &target); err != nil {
			return nil, err
		}
		out[source] = append(out[source], target)
	}
	return out, rows.Err()
}
