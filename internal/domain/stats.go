package domain

import "time"

// ReconcileStats holds statistics from one reconciliation pass
type ReconcileStats struct {
	DocumentsParsed int
	ItemsSeen       int
	Created         int
	Updated         int
	Tombstoned      int
	Merged          int
	SkippedDeleted  int // items referencing a tombstoned id
	Ambiguous       int // items left unresolved by fuzzy matching
	OrphansRouted   int
	CompletedByCard int
	Duration        time.Duration
}
