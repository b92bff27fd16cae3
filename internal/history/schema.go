package history

// schemaSQL defines the schema for the fix ledger.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS fixes (
    id INTEGER PRIMARY KEY AUTO_INCREMENT,
    file_path TEXT NOT NULL,
    class_fqn TEXT NOT NULL,
    annotation TEXT NOT NULL,
    before_hash TEXT NOT NULL,     -- content hash before the fix
    after_hash TEXT NOT NULL,      -- content hash the fix produced
    before_text LONGTEXT NOT NULL, -- full file content before the fix
    applied_at TEXT NOT NULL
);
`

// initSchema creates the database tables if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
