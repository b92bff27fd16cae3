// Package index provides a SQLite-backed index of Java class
// declarations across the workspace. The index is stored in
// .jfix/index.db and lets the resolver find a class's defining file
// without re-scanning the project on every check.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Index manages the .jfix/index.db SQLite database.
type Index struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the index database at the specified .jfix
// directory. It initializes the schema if the database is new.
func Open(jfixDir string) (*Index, error) {
	dbPath := filepath.Join(jfixDir, "index.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index db: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	idx := &Index{db: db, dbPath: dbPath}

	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return idx, nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	if x.db == nil {
		return nil
	}
	return x.db.Close()
}

// Clear removes all indexed data.
func (x *Index) Clear() error {
	_, err := x.db.Exec("DELETE FROM classes; DELETE FROM file_index;")
	if err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.dbPath
}

// Stats holds index statistics.
type Stats struct {
	ClassCount int64
	FileCount  int64
}

// GetStats returns statistics about the index contents.
func (x *Index) GetStats() (*Stats, error) {
	var stats Stats

	err := x.db.QueryRow("SELECT COUNT(*) FROM classes").Scan(&stats.ClassCount)
	if err != nil {
		return nil, fmt.Errorf("count classes: %w", err)
	}

	err = x.db.QueryRow("SELECT COUNT(*) FROM file_index").Scan(&stats.FileCount)
	if err != nil {
		return nil, fmt.Errorf("count file index: %w", err)
	}

	return &stats, nil
}

// ContentHash returns the hex-encoded SHA-256 of file content, used to
// skip unchanged files on rescan.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
