// Package sqlite implements ports.LedgerIndex: a derived search index over
// the ledger table. The database is a cache; it is rebuilt from the CSV
// after every sync and can be deleted without losing anything.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kinetic/internal/domain"
	"kinetic/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Index implements ports.LedgerIndex using SQLite
type Index struct {
	db     *sql.DB
	dbPath string
}

var _ ports.LedgerIndex = (*Index)(nil)

// NewIndex creates an unopened index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the database at the given path, creating the schema
// when absent and discarding it on version mismatch
func (idx *Index) Open(path string) error {
	idx.dbPath = path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS objects (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			canonical TEXT NOT NULL,
			state TEXT NOT NULL,
			source TEXT NOT NULL,
			tags TEXT NOT NULL,
			people TEXT NOT NULL,
			notes TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_objects_canonical ON objects(canonical);
		CREATE INDEX IF NOT EXISTS idx_objects_type ON objects(type);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	var version string
	db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if version != "" && version != schemaVersion {
		if _, err := db.Exec("DELETE FROM objects"); err != nil {
			db.Close()
			return fmt.Errorf("failed to reset stale index: %w", err)
		}
	}
	if _, err := db.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)",
		schemaVersion,
	); err != nil {
		db.Close()
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Rebuild replaces the indexed rows with the given objects in one
// transaction
func (idx *Index) Rebuild(objects []*domain.LedgerObject) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM objects"); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO objects (id, type, name, canonical, state, source, tags, people, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, obj := range objects {
		_, err := stmt.Exec(
			obj.ID,
			obj.Type.String(),
			obj.DisplayName,
			obj.CanonicalText,
			obj.State,
			obj.SourceLocation,
			strings.Join(obj.Tags, ";"),
			strings.Join(obj.People, ";"),
			obj.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", obj.ID, err)
		}
	}
	return tx.Commit()
}

// Search matches the query case-insensitively against names, tags, people,
// and notes
func (idx *Index) Search(query string) ([]domain.SearchHit, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := idx.db.Query(`
		SELECT id, type, name, state, source, tags, notes
		FROM objects
		WHERE lower(name) LIKE ?
		   OR lower(tags) LIKE ?
		   OR lower(people) LIKE ?
		   OR lower(notes) LIKE ?
		ORDER BY id
	`, pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		hit, notes, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(strings.ToLower(hit.DisplayName), strings.Trim(pattern, "%")) {
			hit.Snippet = snippet(notes, strings.Trim(pattern, "%"))
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// Get returns the indexed row for one id, or ErrNoRows wrapped
func (idx *Index) Get(id string) (*domain.SearchHit, error) {
	row := idx.db.QueryRow(`
		SELECT id, type, name, state, source, tags, notes
		FROM objects WHERE id = ?
	`, id)
	hit, _, err := scanHit(row)
	if err != nil {
		return nil, err
	}
	return &hit, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHit(s scanner) (domain.SearchHit, string, error) {
	var hit domain.SearchHit
	var typeName, tags, notes string
	if err := s.Scan(&hit.ID, &typeName, &hit.DisplayName, &hit.State, &hit.SourceLocation, &tags, &notes); err != nil {
		return hit, "", fmt.Errorf("failed to scan row: %w", err)
	}
	hit.Type = domain.ParseObjectType(typeName)
	if tags != "" {
		hit.Tags = strings.Split(tags, ";")
	}
	return hit, notes, nil
}

// snippet returns the first line of the notes containing the needle
func snippet(notes, needle string) string {
	if needle == "" {
		return ""
	}
	for _, line := range strings.Split(notes, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
