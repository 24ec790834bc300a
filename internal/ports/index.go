package ports

import "kinetic/internal/domain"

// LedgerIndex provides cached search over the ledger. The index is derived
// state: it is rebuilt from the canonical table after every sync and can be
// deleted at any time without data loss.
type LedgerIndex interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Rebuild replaces the indexed rows with the given objects
	Rebuild(objects []*domain.LedgerObject) error

	// Search matches the query against names, tags, people, and notes
	Search(query string) ([]domain.SearchHit, error)

	// Get returns the indexed row for one id
	Get(id string) (*domain.SearchHit, error)
}
