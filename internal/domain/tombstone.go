package domain

import "time"

// TombstoneRecord is the permanent record of a deleted object id. Rows are
// appended, never edited or removed; the allocator consults them so a
// retired id is never reissued.
type TombstoneRecord struct {
	ID            string
	CanonicalName string
	DeletedAt     time.Time
	OriginFile    string
	Reason        string
	Notes         string
}
