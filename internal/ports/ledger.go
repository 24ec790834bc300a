package ports

import "kinetic/internal/domain"

// LedgerRepository defines persistence for the canonical object table
type LedgerRepository interface {
	// Load reads all rows. A missing table yields an empty slice.
	Load() ([]*domain.LedgerObject, error)

	// Save writes all rows atomically, replacing the previous table
	Save(objects []*domain.LedgerObject) error
}

// TombstoneLog defines persistence for the append-only deletion record
type TombstoneLog interface {
	// Load reads all tombstone rows in append order
	Load() ([]domain.TombstoneRecord, error)

	// Save writes the full record set. Callers only ever extend the
	// loaded slice; dropping rows violates the append-only contract.
	Save(records []domain.TombstoneRecord) error
}

// BucketCatalog defines read access to the scheduling-bucket definitions
type BucketCatalog interface {
	Load() ([]domain.Bucket, error)
}
