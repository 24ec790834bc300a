package ledger

import (
	"strings"

	"kinetic/internal/domain"
)

// Allocator issues new object identifiers. It scans both the live store
// and the tombstone set, so an id that ever existed is never reissued.
// Allocation itself is side-effect-free: the same call returns the same id
// until the caller commits the new record to the store.
type Allocator struct {
	store      *Store
	tombstones *TombstoneSet
}

// NewAllocator returns an allocator over the given store and tombstones
func NewAllocator(store *Store, tombstones *TombstoneSet) *Allocator {
	return &Allocator{store: store, tombstones: tombstones}
}

// NextID returns the next top-level id for a type: one past the highest
// numeric suffix ever used under that prefix
func (a *Allocator) NextID(t domain.ObjectType) string {
	prefix := t.Prefix()
	max := 0
	scan := func(id string) {
		if !strings.HasPrefix(id, prefix) {
			return
		}
		if n, ok := domain.TopNumber(id); ok && n > max {
			max = n
		}
	}
	for id := range a.store.objects {
		scan(id)
	}
	for _, r := range a.tombstones.Records() {
		scan(r.ID)
	}
	return domain.FormatID(prefix, max+1)
}

// NextChildID returns the lowest child number never used under the parent,
// consulting live and tombstoned ids alike so numbers are not reused after
// deletion
func (a *Allocator) NextChildID(parentID string) string {
	for n := 1; ; n++ {
		id := domain.FormatChildID(parentID, n)
		if _, live := a.store.Get(id); live {
			continue
		}
		if a.tombstones.Contains(id) {
			continue
		}
		return id
	}
}
