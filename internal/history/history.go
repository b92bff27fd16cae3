// Package history provides Dolt-backed persistence for applied fixes.
// The ledger is located at .jfix/history/ (a Dolt repository) and records
// every mutation with enough context to roll it back safely.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/dolthub/driver"

	"github.com/anthropics/jfix/internal/index"
)

// ErrDrift is returned when a rollback target file no longer matches the
// content the fix produced.
var ErrDrift = errors.New("file changed since fix was applied")

// Store manages the .jfix/history/ Dolt database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Fix is one recorded mutation.
type Fix struct {
	ID         int64
	File       string
	Class      string
	Annotation string
	BeforeHash string
	AfterHash  string
	BeforeText string
	AppliedAt  string
}

// Open opens or creates the history database at the specified .jfix
// directory. It auto-creates the directory if it doesn't exist and
// initializes the schema if the database is new.
func Open(jfixDir string) (*Store, error) {
	if err := os.MkdirAll(jfixDir, 0755); err != nil {
		return nil, fmt.Errorf("create .jfix directory: %w", err)
	}

	dbPath := filepath.Join(jfixDir, "history")
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("create dolt directory: %w", err)
	}

	// First, connect without specifying database to create it if needed
	initDSN := fmt.Sprintf("file://%s?commitname=jfix&commitemail=jfix@local", dbPath)
	initDB, err := sql.Open("dolt", initDSN)
	if err != nil {
		return nil, fmt.Errorf("open dolt for init: %w", err)
	}

	_, err = initDB.Exec("CREATE DATABASE IF NOT EXISTS jfix")
	if err != nil {
		initDB.Close()
		return nil, fmt.Errorf("create database: %w", err)
	}
	initDB.Close()

	dsn := fmt.Sprintf("file://%s?commitname=jfix&commitemail=jfix@local&database=jfix", dbPath)
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dolt db: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database directory path.
func (s *Store) Path() string {
	return s.dbPath
}

// Record appends a fix to the ledger and returns its id.
func (s *Store) Record(f *Fix) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`
		INSERT INTO fixes (file_path, class_fqn, annotation, before_hash, after_hash, before_text, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.File, f.Class, f.Annotation, f.BeforeHash, f.AfterHash, f.BeforeText, now)
	if err != nil {
		return 0, fmt.Errorf("record fix: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fix id: %w", err)
	}
	f.ID = id
	f.AppliedAt = now
	return id, nil
}

// List returns the most recent fixes, newest first. A non-positive limit
// returns everything.
func (s *Store) List(limit int) ([]Fix, error) {
	query := `
		SELECT id, file_path, class_fqn, annotation, before_hash, after_hash, applied_at
		FROM fixes ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list fixes: %w", err)
	}
	defer rows.Close()

	var fixes []Fix
	for rows.Next() {
		var f Fix
		if err := rows.Scan(&f.ID, &f.File, &f.Class, &f.Annotation,
			&f.BeforeHash, &f.AfterHash, &f.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan fix: %w", err)
		}
		fixes = append(fixes, f)
	}
	return fixes, rows.Err()
}

// Get returns one fix with its stored file content, or nil when the id is
// unknown.
func (s *Store) Get(id int64) (*Fix, error) {
	var f Fix
	err := s.db.QueryRow(`
		SELECT id, file_path, class_fqn, annotation, before_hash, after_hash, before_text, applied_at
		FROM fixes WHERE id = ?`, id).
		Scan(&f.ID, &f.File, &f.Class, &f.Annotation,
			&f.BeforeHash, &f.AfterHash, &f.BeforeText, &f.AppliedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fix %d: %w", id, err)
	}
	return &f, nil
}

// Restore writes the pre-fix content of the given fix back to its file.
// It refuses with ErrDrift when the file no longer matches the content
// the fix produced, so unrelated edits are never clobbered.
func (s *Store) Restore(id int64) (*Fix, error) {
	f, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("no fix with id %d", id)
	}

	current, err := os.ReadFile(f.File)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.File, err)
	}
	if index.ContentHash(current) != f.AfterHash {
		return nil, fmt.Errorf("%s: %w", f.File, ErrDrift)
	}

	if err := os.WriteFile(f.File, []byte(f.BeforeText), 0644); err != nil {
		return nil, fmt.Errorf("restore %s: %w", f.File, err)
	}
	return f, nil
}
