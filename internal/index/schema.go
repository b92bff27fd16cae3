package index

// schemaSQL defines the SQLite schema for the class index.
const schemaSQL = `
-- indexed type declarations
CREATE TABLE IF NOT EXISTS classes (
    fqn TEXT PRIMARY KEY,             -- com.example.Account
    name TEXT NOT NULL,               -- Account
    package TEXT,                     -- com.example ('' for default package)
    kind TEXT NOT NULL,               -- class, interface, enum, record, annotation
    file_path TEXT NOT NULL,
    line_start INTEGER NOT NULL,
    line_end INTEGER NOT NULL,
    methods TEXT,                     -- JSON array of declared method names
    annotations TEXT,                 -- JSON array of annotation names as written
    updated_at TEXT NOT NULL
);

-- file index (track scanned files)
CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    scan_hash TEXT NOT NULL,
    scanned_at TEXT NOT NULL
);

-- Indexes for performance
CREATE INDEX IF NOT EXISTS idx_classes_name ON classes(name);
CREATE INDEX IF NOT EXISTS idx_classes_file ON classes(file_path);
CREATE INDEX IF NOT EXISTS idx_classes_package ON classes(package);
`

// initSchema creates the database tables and indexes if they don't exist.
func (x *Index) initSchema() error {
	_, err := x.db.Exec(schemaSQL)
	return err
}
