package ledger

import (
	"time"

	"kinetic/internal/domain"
)

// TombstoneSet is the in-memory view of the append-only tombstone table.
// Records are only ever appended; the allocator and resolver consult it so
// retired ids are never reissued or resurrected.
type TombstoneSet struct {
	records []domain.TombstoneRecord
	ids     map[string]bool
}

// NewTombstoneSet wraps loaded tombstone records
func NewTombstoneSet(records []domain.TombstoneRecord) *TombstoneSet {
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		ids[r.ID] = true
	}
	return &TombstoneSet{records: records, ids: ids}
}

// Contains reports whether the id was ever tombstoned
func (t *TombstoneSet) Contains(id string) bool {
	return t.ids[id]
}

// Append adds a tombstone record. Appending an id twice is a no-op for the
// id set but still records the row, matching the append-only table.
func (t *TombstoneSet) Append(record domain.TombstoneRecord) {
	if record.DeletedAt.IsZero() {
		record.DeletedAt = time.Now().UTC()
	}
	t.records = append(t.records, record)
	t.ids[record.ID] = true
}

// Records returns all tombstone rows in append order
func (t *TombstoneSet) Records() []domain.TombstoneRecord {
	return t.records
}

// Len returns the number of tombstone rows
func (t *TombstoneSet) Len() int {
	return len(t.records)
}
