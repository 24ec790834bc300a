package reconcile

import (
	"fmt"
	"slices"

	"kinetic/internal/domain"
)

// Prune runs the post-reconciliation cleanup in a fixed order: dangling
// parent links, duplicate merging, then a hierarchy consistency sweep.
// Running it on an already clean ledger changes nothing.
func (p *Pass) Prune() {
	p.pruneDanglingParents()
	p.dedupeStructural()
	p.dedupeProjects()
	p.dedupeTasks()
	p.sweepHierarchy()
}

// pruneDanglingParents clears parent references to ids that no longer
// resolve. Objects that cannot exist without a parent are tombstoned
// instead of orphaned.
func (p *Pass) pruneDanglingParents() {
	for _, obj := range p.Store.All() {
		if obj.ParentID == "" {
			continue
		}
		if _, ok := p.Store.Get(obj.ParentID); ok {
			continue
		}
		if obj.Type.RequiresParent() {
			p.logger.Warn("removing object with dangling required parent",
				"id", obj.ID, "parent", obj.ParentID)
			p.tombstone(obj, fmt.Sprintf("parent %s no longer exists", obj.ParentID))
			continue
		}
		obj.ParentID = ""
		obj.ModifiedAt = p.now
		p.Store.Touch()
	}
}

// dedupeStructural merges objects sharing the full (type, source, canonical)
// key, which a single pass can only produce when a document repeats the same
// line
func (p *Pass) dedupeStructural() {
	groups := make(map[domain.StructuralKey][]*domain.LedgerObject)
	for _, obj := range p.Store.All() {
		key := obj.Key()
		groups[key] = append(groups[key], obj)
	}
	for _, group := range groups {
		p.mergeGroup(group)
	}
}

// dedupeProjects collapses Project duplicates: the same name tracked twice,
// or two Project objects claiming the same file
func (p *Pass) dedupeProjects() {
	byName := make(map[string][]*domain.LedgerObject)
	bySource := make(map[string][]*domain.LedgerObject)
	for _, obj := range p.Store.OfType(domain.TypeProject) {
		byName[obj.CanonicalText] = append(byName[obj.CanonicalText], obj)
		if obj.SourceLocation != "" {
			bySource[obj.SourceLocation] = append(bySource[obj.SourceLocation], obj)
		}
	}
	for _, group := range byName {
		p.mergeGroup(group)
	}
	for source, group := range bySource {
		// Re-check liveness: the name pass may already have merged members.
		live := group[:0]
		for _, obj := range group {
			if _, ok := p.Store.Get(obj.ID); ok && obj.SourceLocation == source {
				live = append(live, obj)
			}
		}
		p.mergeGroup(live)
	}
}

// dedupeTasks collapses Task duplicates under the same parent with the same
// canonical text
func (p *Pass) dedupeTasks() {
	type key struct{ parent, canonical string }
	groups := make(map[key][]*domain.LedgerObject)
	for _, obj := range p.Store.OfType(domain.TypeTask) {
		if obj.ParentID == "" {
			continue
		}
		k := key{parent: obj.ParentID, canonical: obj.CanonicalText}
		groups[k] = append(groups[k], obj)
	}
	for _, group := range groups {
		p.mergeGroup(group)
	}
}

// mergeGroup keeps the earliest-allocated id and folds the rest into it:
// tags, people, and children move to the survivor, losers are tombstoned
func (p *Pass) mergeGroup(group []*domain.LedgerObject) {
	if len(group) < 2 {
		return
	}
	slices.SortStableFunc(group, func(a, b *domain.LedgerObject) int {
		return domain.CompareIDs(a.ID, b.ID)
	})
	survivor := group[0]
	merged := false
	for _, loser := range group[1:] {
		if _, ok := p.Store.Get(loser.ID); !ok {
			continue
		}
		merged = true
		for _, tag := range loser.Tags {
			if tag == domain.TagToday {
				continue
			}
			if domain.IsBucketTag(tag) && (survivor.IsComplete() || survivor.BucketTag() != "") {
				continue
			}
			survivor.AddTag(tag)
		}
		for _, person := range loser.People {
			survivor.AddPerson(person)
		}
		for _, childID := range loser.ChildIDs {
			child, ok := p.Store.Get(childID)
			if !ok {
				continue
			}
			child.ParentID = survivor.ID
			survivor.AddChild(childID)
		}
		if survivor.Notes == "" {
			survivor.Notes = loser.Notes
		}
		if loser.IsComplete() && !survivor.IsComplete() {
			survivor.State = domain.StateComplete
			survivor.StripBucketTags()
		}
		p.logger.Info("merged duplicate", "kept", survivor.ID, "removed", loser.ID)
		p.tombstone(loser, fmt.Sprintf("duplicate of %s", survivor.ID))
		p.Stats.Merged++
	}
	if merged {
		survivor.ModifiedAt = p.now
		p.Store.Touch()
	}
}

// sweepHierarchy restores the two-way parent/child agreement: child lists
// reference only live objects that point back, and every parented object
// appears in its parent's list
func (p *Pass) sweepHierarchy() {
	changed := false
	for _, obj := range p.Store.All() {
		kept := obj.ChildIDs[:0]
		for _, id := range obj.ChildIDs {
			child, ok := p.Store.Get(id)
			if ok && child.ParentID == obj.ID {
				kept = append(kept, id)
			} else {
				changed = true
			}
		}
		obj.ChildIDs = kept
	}
	for _, obj := range p.Store.All() {
		if obj.ParentID == "" {
			continue
		}
		if parent, ok := p.Store.Get(obj.ParentID); ok {
			if parent.AddChild(obj.ID) {
				changed = true
			}
		}
	}
	if changed {
		p.Store.Touch()
	}
}
