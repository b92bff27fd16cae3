package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ClassRecord is one indexed type declaration.
type ClassRecord struct {
	FQN         string
	Name        string
	Package     string
	Kind        string
	File        string
	LineStart   uint32
	LineEnd     uint32
	Methods     []string
	Annotations []string
}

// ReplaceFileClasses replaces all indexed classes for a file with the
// given records, atomically.
func (x *Index) ReplaceFileClasses(file string, records []ClassRecord) error {
	tx, err := x.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM classes WHERE file_path = ?", file); err != nil {
		return fmt.Errorf("delete classes for %s: %w", file, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		methods, err := json.Marshal(rec.Methods)
		if err != nil {
			return fmt.Errorf("marshal methods: %w", err)
		}
		annotations, err := json.Marshal(rec.Annotations)
		if err != nil {
			return fmt.Errorf("marshal annotations: %w", err)
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO classes
			(fqn, name, package, kind, file_path, line_start, line_end, methods, annotations, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.FQN, rec.Name, rec.Package, rec.Kind, rec.File,
			rec.LineStart, rec.LineEnd, string(methods), string(annotations), now)
		if err != nil {
			return fmt.Errorf("insert class %s: %w", rec.FQN, err)
		}
	}

	return tx.Commit()
}

// LookupFQN returns the indexed class with the given fully-qualified
// name, or nil when the index has no such class.
func (x *Index) LookupFQN(fqn string) (*ClassRecord, error) {
	row := x.db.QueryRow(`
		SELECT fqn, name, package, kind, file_path, line_start, line_end, methods, annotations
		FROM classes WHERE fqn = ?`, fqn)
	return scanClassRecord(row)
}

// LookupName returns all indexed classes with the given simple name.
func (x *Index) LookupName(name string) ([]ClassRecord, error) {
	rows, err := x.db.Query(`
		SELECT fqn, name, package, kind, file_path, line_start, line_end, methods, annotations
		FROM classes WHERE name = ? ORDER BY fqn`, name)
	if err != nil {
		return nil, fmt.Errorf("lookup name %s: %w", name, err)
	}
	defer rows.Close()

	var records []ClassRecord
	for rows.Next() {
		rec, err := scanClassRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// IndexedFiles returns every file path with a recorded scan hash.
func (x *Index) IndexedFiles() ([]string, error) {
	rows, err := x.db.Query("SELECT file_path FROM file_index ORDER BY file_path")
	if err != nil {
		return nil, fmt.Errorf("list indexed files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan file path: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes a file and its classes from the index.
func (x *Index) DeleteFile(file string) error {
	if _, err := x.db.Exec("DELETE FROM classes WHERE file_path = ?", file); err != nil {
		return fmt.Errorf("delete classes for %s: %w", file, err)
	}
	if _, err := x.db.Exec("DELETE FROM file_index WHERE file_path = ?", file); err != nil {
		return fmt.Errorf("delete file index for %s: %w", file, err)
	}
	return nil
}

// FileHash returns the recorded scan hash for a file, or an empty
// string when the file has not been scanned.
func (x *Index) FileHash(file string) (string, error) {
	var hash string
	err := x.db.QueryRow("SELECT scan_hash FROM file_index WHERE file_path = ?", file).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("file hash for %s: %w", file, err)
	}
	return hash, nil
}

// SetFileHash records the scan hash for a file.
func (x *Index) SetFileHash(file, hash string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := x.db.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, scan_hash, scanned_at)
		VALUES (?, ?, ?)`, file, hash, now)
	if err != nil {
		return fmt.Errorf("set file hash for %s: %w", file, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassRecord(row *sql.Row) (*ClassRecord, error) {
	rec, err := scanClassRecordRows(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func scanClassRecordRows(row rowScanner) (*ClassRecord, error) {
	var rec ClassRecord
	var methods, annotations string

	err := row.Scan(&rec.FQN, &rec.Name, &rec.Package, &rec.Kind, &rec.File,
		&rec.LineStart, &rec.LineEnd, &methods, &annotations)
	if err != nil {
		return nil, err
	}

	if methods != "" {
		if err := json.Unmarshal([]byte(methods), &rec.Methods); err != nil {
			return nil, fmt.Errorf("unmarshal methods for %s: %w", rec.FQN, err)
		}
	}
	if annotations != "" {
		if err := json.Unmarshal([]byte(annotations), &rec.Annotations); err != nil {
			return nil, fmt.Errorf("unmarshal annotations for %s: %w", rec.FQN, err)
		}
	}
	return &rec, nil
}
