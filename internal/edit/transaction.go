package edit

import (
	"errors"
	"fmt"
	"os"
)

// ErrTransactionClosed is returned when a transaction is used after
// Commit or Rollback.
var ErrTransactionClosed = errors.New("transaction already closed")

// Transaction is the scoped write boundary over a single file. Actions
// that mutate source declare StartInWriteAction() and stage their edits
// on a transaction the caller opened; the caller commits on success and
// must guarantee Rollback on every other exit path.
type Transaction struct {
	path   string
	source []byte
	edits  []TextEdit
	closed bool
}

// Begin opens a transaction on the given file, reading its current content.
func Begin(path string) (*Transaction, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("begin transaction on %s: %w", path, err)
	}
	return &Transaction{path: path, source: source}, nil
}

// BeginFromSource opens a transaction over in-memory source. Commit
// fails for such transactions; they exist for previews and tests.
func BeginFromSource(source []byte) *Transaction {
	return &Transaction{source: source}
}

// Path returns the file the transaction is bound to.
func (t *Transaction) Path() string {
	return t.path
}

// Source returns the content the transaction was opened with.
func (t *Transaction) Source() []byte {
	return t.source
}

// Add stages an edit. Edits are validated at commit time.
func (t *Transaction) Add(e TextEdit) {
	t.edits = append(t.edits, e)
}

// Pending returns the number of staged edits.
func (t *Transaction) Pending() int {
	return len(t.edits)
}

// Preview returns the text the staged edits would produce, without
// writing anything.
func (t *Transaction) Preview() ([]byte, error) {
	if t.closed {
		return nil, ErrTransactionClosed
	}
	return Apply(t.source, t.edits)
}

// Commit applies the staged edits and writes the result back to the
// file. A commit with no staged edits closes the transaction without
// touching the file.
func (t *Transaction) Commit() error {
	if t.closed {
		return ErrTransactionClosed
	}
	t.closed = true

	if len(t.edits) == 0 {
		return nil
	}
	if t.path == "" {
		return errors.New("commit on in-memory transaction")
	}

	result, err := Apply(t.source, t.edits)
	if err != nil {
		return fmt.Errorf("apply edits to %s: %w", t.path, err)
	}
	if err := os.WriteFile(t.path, result, 0644); err != nil {
		return fmt.Errorf("write %s: %w", t.path, err)
	}
	return nil
}

// Rollback discards all staged edits and closes the transaction.
// Rolling back an already closed transaction is a no-op.
func (t *Transaction) Rollback() {
	t.edits = nil
	t.closed = true
}
