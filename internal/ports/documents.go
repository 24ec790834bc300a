package ports

import "time"

// CardFile identifies one daily snapshot card on disk
type CardFile struct {
	Path string    // repo-relative path
	Date time.Time // date encoded in the filename
}

// DocumentStore defines access to the managed markdown documents. Paths
// are always repo-relative with forward slashes; they double as the
// sourceLocation values stored in the ledger.
type DocumentStore interface {
	// Exists reports whether the document is present
	Exists(relPath string) bool

	// Read returns the document's lines. Reading a missing document is an
	// error; callers check Exists first when absence is expected.
	Read(relPath string) ([]string, error)

	// Write persists the document atomically (temp file plus rename)
	Write(relPath string, content string) error

	// ListProjectFiles returns the per-project documents under Projects/
	ListProjectFiles() ([]string, error)

	// ListCardFiles returns the daily cards in date order, oldest first
	ListCardFiles() ([]CardFile, error)
}
