package ledger

import (
	"testing"

	"kinetic/internal/domain"
)

func task(id, name, source string) *domain.LedgerObject {
	obj := &domain.LedgerObject{ID: id, Type: domain.TypeTask, State: domain.StateActive, SourceLocation: source}
	obj.Rename(name)
	return obj
}

func TestStoreAddAndLookup(t *testing.T) {
	s := NewStore()
	obj := task("T1", "Fix the roof", "S3.md")
	if err := s.Add(obj); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(task("T1", "Duplicate", "S3.md")); err == nil {
		t.Error("duplicate id accepted")
	}

	got, ok := s.Get("T1")
	if !ok || got.DisplayName != "Fix the roof" {
		t.Errorf("Get = %+v, %v", got, ok)
	}

	matches := s.FindStructural(obj.Key())
	if len(matches) != 1 || matches[0].ID != "T1" {
		t.Errorf("structural lookup = %v", matches)
	}
	if got := s.FindCanonical(domain.TypeTask, "fixtheroof"); len(got) != 1 {
		t.Errorf("canonical lookup = %v", got)
	}
	if got := s.FindCanonical(domain.TypeProject, "fixtheroof"); len(got) != 0 {
		t.Error("canonical lookup ignored type")
	}
}

func TestStoreReindexAfterRename(t *testing.T) {
	s := NewStore()
	obj := task("T1", "Old name", "S3.md")
	s.Add(obj)
	s.FindCanonical(domain.TypeTask, "oldname") // force index build

	obj.Rename("New name")
	s.Touch()

	if got := s.FindCanonical(domain.TypeTask, "newname"); len(got) != 1 {
		t.Errorf("rename not visible after Touch: %v", got)
	}
	if got := s.FindCanonical(domain.TypeTask, "oldname"); len(got) != 0 {
		t.Errorf("stale index entry survived: %v", got)
	}
}

func TestStoreRemoveKeepsOrder(t *testing.T) {
	s := NewStore()
	s.Add(task("T1", "a", "S3.md"))
	s.Add(task("T2", "b", "S3.md"))
	s.Add(task("T3", "c", "S3.md"))
	s.Remove("T2")

	all := s.All()
	if len(all) != 2 || all[0].ID != "T1" || all[1].ID != "T3" {
		t.Errorf("All() = %v", all)
	}
}

func TestAllocatorNextID(t *testing.T) {
	s := NewStore()
	s.Add(task("T1", "a", "S3.md"))
	s.Add(task("T7", "b", "S3.md"))
	tombs := NewTombstoneSet([]domain.TombstoneRecord{{ID: "T9", CanonicalName: "gone"}})
	alloc := NewAllocator(s, tombs)

	if got := alloc.NextID(domain.TypeTask); got != "T10" {
		t.Errorf("NextID = %s, want T10 (tombstoned T9 counts)", got)
	}
	if got := alloc.NextID(domain.TypeProject); got != "P1" {
		t.Errorf("NextID = %s, want P1", got)
	}

	// Side-effect-free until commit.
	if alloc.NextID(domain.TypeTask) != "T10" {
		t.Error("allocation mutated state before commit")
	}
	s.Add(task("T10", "c", "S3.md"))
	if got := alloc.NextID(domain.TypeTask); got != "T11" {
		t.Errorf("NextID after commit = %s, want T11", got)
	}
}

func TestAllocatorChildNumbering(t *testing.T) {
	s := NewStore()
	parent := &domain.LedgerObject{ID: "P3", Type: domain.TypeProject}
	parent.Rename("Garden")
	s.Add(parent)
	tombs := NewTombstoneSet(nil)
	alloc := NewAllocator(s, tombs)

	for want := 1; want <= 3; want++ {
		id := alloc.NextChildID("P3")
		if n, _ := domain.ChildNumber(id); n != want {
			t.Fatalf("child id = %s, want P3.%d", id, want)
		}
		s.Add(task(id, "child", "Projects/garden.md"))
	}

	// Tombstoning P3.2 must not free its number.
	s.Remove("P3.2")
	tombs.Append(domain.TombstoneRecord{ID: "P3.2", CanonicalName: "child"})

	if got := alloc.NextChildID("P3"); got != "P3.4" {
		t.Errorf("NextChildID = %s, want P3.4 (no reuse after tombstone)", got)
	}
}

func TestTombstoneSet(t *testing.T) {
	tombs := NewTombstoneSet(nil)
	if tombs.Contains("T1") {
		t.Error("empty set contains T1")
	}
	tombs.Append(domain.TombstoneRecord{ID: "T1", CanonicalName: "fixtheroof", Reason: "removed from source"})
	if !tombs.Contains("T1") {
		t.Error("appended id missing")
	}
	if tombs.Records()[0].DeletedAt.IsZero() {
		t.Error("deletion date not defaulted")
	}
}
