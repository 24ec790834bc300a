package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"kinetic/internal/domain"
	"kinetic/internal/ledger"
	"kinetic/internal/outline"
)

var bucketHeadingRegex = regexp.MustCompile(`\((S3-[0-9]+)\)\s*$`)

// Pass holds the state of one reconciliation pass over the document set.
// A pass is single-threaded and runs to completion; re-running it over its
// own rendered output is a no-op.
type Pass struct {
	Store      *ledger.Store
	Tombstones *ledger.TombstoneSet
	Stats      domain.ReconcileStats

	alloc    *ledger.Allocator
	resolver *Resolver
	logger   *log.Logger
	now      time.Time

	seen    map[string]bool
	sources map[string]bool
}

// NewPass builds a reconciliation pass over a loaded ledger projection
func NewPass(store *ledger.Store, tombstones *ledger.TombstoneSet, cfg MatchConfig, logger *log.Logger) *Pass {
	if logger == nil {
		logger = log.Default()
	}
	return &Pass{
		Store:      store,
		Tombstones: tombstones,
		alloc:      ledger.NewAllocator(store, tombstones),
		resolver:   NewResolver(store, tombstones, cfg),
		logger:     logger,
		now:        time.Now().UTC(),
		seen:       make(map[string]bool),
		sources:    make(map[string]bool),
	}
}

// ReconcileCore processes the Core surface: areas of responsibility with
// nested goals, and relationships
func (p *Pass) ReconcileCore(doc *outline.Document) {
	p.beginDocument(doc)

	if areas := doc.Root.FindTitle(outline.SectionAreas); areas != nil {
		for _, item := range areas.Items {
			aor := p.applyItem(item, domain.TypeAOR, doc.Source, nil, "", false)
			if aor == nil {
				continue
			}
			for _, child := range item.Children {
				p.applyGoalTree(child, doc.Source, aor)
			}
		}
	}

	if rels := doc.Root.FindTitle(outline.SectionPeople); rels != nil {
		for _, item := range rels.Items {
			p.applyItem(item, domain.TypeRelationship, doc.Source, nil, "", false)
		}
	}
}

func (p *Pass) applyGoalTree(item *domain.ParsedItem, source string, parent *domain.LedgerObject) {
	goal := p.applyItem(item, domain.TypeGoal, source, parent, "", false)
	if goal == nil {
		return
	}
	for _, child := range item.Children {
		p.applyGoalTree(child, source, goal)
	}
}

// ReconcileS3 processes the scheduling surface: every bucket section
// assigns its bucket tag to the tasks beneath it; the Coming Up section
// holds unbucketed tasks. The Today's Focus block belongs to the snapshot
// overlay and is not reconciled here.
func (p *Pass) ReconcileS3(doc *outline.Document) {
	p.beginDocument(doc)

	doc.Root.Walk(func(h *domain.HeadingNode) {
		if m := bucketHeadingRegex.FindStringSubmatch(h.Title); m != nil {
			for _, item := range h.Items {
				p.applyTaskTree(item, doc.Source, nil, m[1])
			}
			return
		}
		if domain.CanonicalText(h.Title) == domain.CanonicalText(outline.SectionComing) {
			for _, item := range h.Items {
				p.applyTaskTree(item, doc.Source, nil, "")
			}
		}
	})
}

func (p *Pass) applyTaskTree(item *domain.ParsedItem, source string, parent *domain.LedgerObject, bucketID string) {
	task := p.applyItem(item, domain.TypeTask, source, parent, bucketID, false)
	if task == nil {
		return
	}
	for _, child := range item.Children {
		p.applyTaskTree(child, source, task, bucketID)
	}
}

// ReconcileProjectFile processes one per-project document: the title
// heading is the Project object, checkbox items are its Tasks. Items in
// the Orphaned Tasks section keep their original owning document.
func (p *Pass) ReconcileProjectFile(doc *outline.Document) *domain.LedgerObject {
	p.beginDocument(doc)

	title := doc.Root
	for _, child := range doc.Root.Children {
		if child.Depth == 1 {
			title = child
			break
		}
	}
	name := title.Title
	if title == doc.Root {
		// No title heading: derive the name from the file path.
		name = projectNameFromPath(doc.Source)
	}

	res := p.resolver.Resolve(title.ObjectID, domain.TypeProject, doc.Source, name)
	var project *domain.LedgerObject
	switch res.Outcome {
	case OutcomeSkip:
		p.logger.Warn("skipping project with tombstoned id", "source", doc.Source, "reason", res.Reason)
		p.Stats.SkippedDeleted++
		return nil
	case OutcomeMatched:
		project = res.Object
	case OutcomeCreate:
		p.noteAmbiguity(res, doc.Source, name)
		project = p.create(domain.TypeProject, "", name, doc.Source)
	}
	p.updateObject(project, name, false, nil, doc.Source, nil, nil, nil, "", false)

	orphanStart, orphanEnd := -1, -1
	if s, e, ok := outline.FindSectionBounds(doc.Lines, 2, outline.SectionOrphans); ok {
		orphanStart, orphanEnd = s, e
	}

	for _, item := range doc.Items {
		inOrphans := orphanStart >= 0 && item.Line-1 > orphanStart && item.Line-1 < orphanEnd
		p.applyProjectTaskTree(item, doc.Source, project, inOrphans)
	}
	return project
}

func (p *Pass) applyProjectTaskTree(item *domain.ParsedItem, source string, parent *domain.LedgerObject, keepSource bool) {
	task := p.applyItem(item, domain.TypeTask, source, parent, "", keepSource)
	if task == nil {
		return
	}
	for _, child := range item.Children {
		p.applyProjectTaskTree(child, source, task, keepSource)
	}
}

// ReconcileProjectsIndex processes the derived Projects.md overview: it
// only refreshes display names of projects referenced by id. New projects
// are never created from the index.
func (p *Pass) ReconcileProjectsIndex(doc *outline.Document) {
	doc.Root.Walk(func(h *domain.HeadingNode) {
		if h.ObjectID == "" || h.Depth != 3 {
			return
		}
		obj, ok := p.Store.Get(h.ObjectID)
		if !ok {
			if p.Tombstones.Contains(h.ObjectID) {
				p.logger.Warn("index references tombstoned id", "id", h.ObjectID, "source", doc.Source)
				p.Stats.SkippedDeleted++
			}
			return
		}
		if obj.Type != domain.TypeProject {
			return
		}
		if h.Title != "" && h.Title != obj.DisplayName {
			obj.Rename(h.Title)
			obj.ModifiedAt = p.now
			p.Store.Touch()
			p.Stats.Updated++
		}
		p.seen[obj.ID] = true
	})
}

// applyItem resolves one parsed item and applies its attributes to the
// ledger. It returns nil when the item must be skipped (tombstoned id).
func (p *Pass) applyItem(item *domain.ParsedItem, t domain.ObjectType, source string, parent *domain.LedgerObject, bucketID string, keepSource bool) *domain.LedgerObject {
	p.Stats.ItemsSeen++

	res := p.resolver.Resolve(item.ExplicitID, t, source, item.Text)
	var obj *domain.LedgerObject
	switch res.Outcome {
	case OutcomeSkip:
		p.logger.Warn("skipping item with tombstoned id",
			"id", item.ExplicitID, "source", source, "line", item.Line)
		p.Stats.SkippedDeleted++
		return nil
	case OutcomeMatched:
		obj = res.Object
	case OutcomeCreate:
		p.noteAmbiguity(res, source, item.Text)
		parentID := ""
		if parent != nil {
			parentID = parent.ID
		}
		obj = p.create(t, parentID, item.Text, source)
	}

	p.updateObject(obj, item.Text, item.Checked, item.NoteLines, source, parent, item.Tags, item.People, bucketID, keepSource)
	return obj
}

func (p *Pass) noteAmbiguity(res Resolution, source, text string) {
	if !res.Ambiguous {
		return
	}
	p.Stats.Ambiguous++
	p.logger.Warn("ambiguous identity resolution, allocating a new id",
		"text", text, "source", source, "detail", res.Reason)
}

// create allocates an id (hierarchical when a structural parent resolved)
// and commits a fresh object to the store
func (p *Pass) create(t domain.ObjectType, parentID, displayName, source string) *domain.LedgerObject {
	var id string
	if parentID != "" {
		id = p.alloc.NextChildID(parentID)
	} else {
		id = p.alloc.NextID(t)
	}
	obj := &domain.LedgerObject{
		ID:             id,
		Type:           t,
		State:          domain.StateActive,
		SourceLocation: source,
		CreatedAt:      p.now,
		ModifiedAt:     p.now,
	}
	obj.Rename(displayName)
	if err := p.Store.Add(obj); err != nil {
		// Cannot happen: the allocator consulted both stores.
		p.logger.Error("allocation collision", "id", id, "err", err)
		return obj
	}
	p.Stats.Created++
	return obj
}

// updateObject applies parsed attributes to a resolved object, touching
// the modification time only when something actually changed
func (p *Pass) updateObject(obj *domain.LedgerObject, displayName string, checked bool, noteLines []string, source string, parent *domain.LedgerObject, tags, people []string, bucketID string, keepSource bool) {
	before := fingerprint(obj)

	if displayName != "" && displayName != obj.DisplayName {
		obj.Rename(displayName)
	}

	if checked {
		p.complete(obj)
	} else if obj.State == "" {
		obj.State = domain.StateActive
	}

	obj.Notes = strings.Join(noteLines, "\n")

	if !keepSource && source != "" {
		obj.SourceLocation = source
	}

	if parent != nil && obj.ParentID != parent.ID {
		if old, ok := p.Store.Get(obj.ParentID); ok {
			old.RemoveChild(obj.ID)
		}
		obj.ParentID = parent.ID
	}
	if parent != nil {
		parent.AddChild(obj.ID)
	}

	for _, tag := range tags {
		if domain.IsBucketTag(tag) {
			p.applyBucketTag(obj, tag)
		} else {
			obj.AddTag(tag)
		}
	}
	for _, person := range people {
		obj.AddPerson(person)
	}
	if bucketID != "" {
		p.applyBucketTag(obj, bucketID)
	}

	if after := fingerprint(obj); after != before {
		obj.ModifiedAt = p.now
		p.Store.Touch()
		p.Stats.Updated++
	}
	p.seen[obj.ID] = true
}

// applyBucketTag assigns a scheduling bucket. An object belongs to exactly
// one bucket, so a reassignment replaces the previous tag. A newly applied
// bucket propagates to the object's current children, once, at assignment
// time. Completed objects never carry bucket tags.
func (p *Pass) applyBucketTag(obj *domain.LedgerObject, bucketID string) {
	if obj.IsComplete() {
		return
	}
	if !obj.SetBucketTag(bucketID) {
		return
	}
	for _, childID := range obj.ChildIDs {
		child, ok := p.Store.Get(childID)
		if !ok || child.IsComplete() {
			continue
		}
		if child.SetBucketTag(bucketID) {
			child.ModifiedAt = p.now
		}
	}
}

// complete marks an object Complete and strips its bucket tags. The
// transition is one-directional: an unchecked box never reactivates a
// completed object.
func (p *Pass) complete(obj *domain.LedgerObject) {
	if obj.IsComplete() {
		obj.StripBucketTags()
		return
	}
	obj.State = domain.StateComplete
	obj.StripBucketTags()
}

// RemoveUnseen tombstones every object owned by a parsed document that no
// longer produced an item resolving to it
func (p *Pass) RemoveUnseen() {
	for _, obj := range p.Store.All() {
		if !p.sources[obj.SourceLocation] || p.seen[obj.ID] {
			continue
		}
		if obj.Type == domain.TypeCard {
			continue
		}
		p.tombstone(obj, fmt.Sprintf("no longer present in %s", obj.SourceLocation))
	}
}

// tombstone records the removal and deletes the row, unhooking it from a
// surviving parent
func (p *Pass) tombstone(obj *domain.LedgerObject, reason string) {
	p.Tombstones.Append(domain.TombstoneRecord{
		ID:            obj.ID,
		CanonicalName: obj.CanonicalText,
		DeletedAt:     p.now,
		OriginFile:    obj.SourceLocation,
		Reason:        reason,
	})
	p.Store.Remove(obj.ID)
	if parent, ok := p.Store.Get(obj.ParentID); ok {
		parent.RemoveChild(obj.ID)
	}
	p.Stats.Tombstoned++
}

func (p *Pass) beginDocument(doc *outline.Document) {
	p.Stats.DocumentsParsed++
	p.sources[doc.Source] = true
	if doc.Malformed > 0 {
		p.logger.Warn("skipped malformed checkbox lines",
			"source", doc.Source, "count", doc.Malformed)
	}
}

// fingerprint captures the attributes whose change should bump the
// modification time
func fingerprint(obj *domain.LedgerObject) string {
	return strings.Join([]string{
		obj.DisplayName,
		obj.State,
		obj.SourceLocation,
		obj.ParentID,
		strings.Join(obj.Tags, ";"),
		strings.Join(obj.People, ";"),
		strings.Join(obj.ChildIDs, ";"),
		obj.Notes,
	}, "\x1f")
}

func projectNameFromPath(source string) string {
	base := source
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".md")
	return strings.ReplaceAll(base, "-", " ")
}
