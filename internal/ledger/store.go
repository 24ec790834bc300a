// Package ledger holds the in-memory projection of the canonical ledger
// table and the identifier allocator that issues new object ids against it.
package ledger

import (
	"fmt"
	"slices"

	"kinetic/internal/domain"
)

// Store is the in-memory projection of the ledger table, keyed by id with
// secondary lookup by structural key and by canonical text. The secondary
// indexes are rebuilt explicitly after mutation rather than kept as
// implicitly-invalidated caches.
type Store struct {
	objects map[string]*domain.LedgerObject
	order   []string // insertion order, for stable persistence

	dirty  bool
	byKey  map[domain.StructuralKey][]string
	byName map[nameKey][]string
}

type nameKey struct {
	Type      domain.ObjectType
	Canonical string
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{objects: make(map[string]*domain.LedgerObject)}
}

// Len returns the number of live objects
func (s *Store) Len() int {
	return len(s.objects)
}

// Add inserts a new object. The id must not already be present.
func (s *Store) Add(obj *domain.LedgerObject) error {
	if obj.ID == "" {
		return fmt.Errorf("object has no id")
	}
	if _, exists := s.objects[obj.ID]; exists {
		return fmt.Errorf("duplicate object id %s", obj.ID)
	}
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
	s.dirty = true
	return nil
}

// Get returns the object with the given id
func (s *Store) Get(id string) (*domain.LedgerObject, bool) {
	obj, ok := s.objects[id]
	return obj, ok
}

// Remove deletes the object with the given id from the projection. The
// caller is responsible for tombstoning first.
func (s *Store) Remove(id string) {
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	s.dirty = true
}

// Touch marks the secondary indexes stale after in-place object mutation
// (rename, relocation)
func (s *Store) Touch() {
	s.dirty = true
}

// All returns the live objects in insertion order
func (s *Store) All() []*domain.LedgerObject {
	out := make([]*domain.LedgerObject, 0, len(s.order))
	for _, id := range s.order {
		if obj, ok := s.objects[id]; ok {
			out = append(out, obj)
		}
	}
	return out
}

// ByID exposes the id-keyed arena for render-time child resolution
func (s *Store) ByID() map[string]*domain.LedgerObject {
	return s.objects
}

// OfType returns all live objects of one type, in insertion order
func (s *Store) OfType(t domain.ObjectType) []*domain.LedgerObject {
	var out []*domain.LedgerObject
	for _, obj := range s.All() {
		if obj.Type == t {
			out = append(out, obj)
		}
	}
	return out
}

// FindStructural returns the objects matching a structural key, in
// insertion order
func (s *Store) FindStructural(key domain.StructuralKey) []*domain.LedgerObject {
	s.reindex()
	return s.resolve(s.byKey[key])
}

// FindCanonical returns same-type objects sharing a canonical text
func (s *Store) FindCanonical(t domain.ObjectType, canonical string) []*domain.LedgerObject {
	s.reindex()
	return s.resolve(s.byName[nameKey{Type: t, Canonical: canonical}])
}

func (s *Store) resolve(ids []string) []*domain.LedgerObject {
	out := make([]*domain.LedgerObject, 0, len(ids))
	for _, id := range ids {
		if obj, ok := s.objects[id]; ok {
			out = append(out, obj)
		}
	}
	return out
}

func (s *Store) reindex() {
	if !s.dirty && s.byKey != nil {
		return
	}
	s.byKey = make(map[domain.StructuralKey][]string)
	s.byName = make(map[nameKey][]string)
	for _, id := range s.order {
		obj, ok := s.objects[id]
		if !ok {
			continue
		}
		key := obj.Key()
		s.byKey[key] = append(s.byKey[key], id)
		nk := nameKey{Type: obj.Type, Canonical: obj.CanonicalText}
		s.byName[nk] = append(s.byName[nk], id)
	}
	s.dirty = false
}
