package reconcile

import (
	"strings"

	"kinetic/internal/domain"
	"kinetic/internal/ledger"
	"kinetic/internal/outline"
)

// Plan holds everything the renderers need for one pass: the section
// memberships derived from the reconciled store. Building a plan does not
// mutate the store except for orphan-routing statistics.
type Plan struct {
	ByID          map[string]*domain.LedgerObject
	Areas         []*domain.LedgerObject
	Relationships []*domain.LedgerObject
	Sections      []outline.BucketSection
	ComingUp      []*domain.LedgerObject
	Projects      []*domain.LedgerObject
	ProjectTasks  map[string][]*domain.LedgerObject // root tasks per project id
	Orphans       map[string][]*domain.LedgerObject // routed tasks per project id
	OpenTasks     map[string]int
}

// BuildPlan derives the render plan from the store. coreSource and s3Source
// are the repo paths of the Core and scheduling documents; buckets come from
// the bucket catalog with the synthetic catch-all appended by the caller.
func (p *Pass) BuildPlan(coreSource, s3Source string, buckets []domain.Bucket) *Plan {
	plan := &Plan{
		ByID:         make(map[string]*domain.LedgerObject),
		ProjectTasks: make(map[string][]*domain.LedgerObject),
		Orphans:      make(map[string][]*domain.LedgerObject),
		OpenTasks:    make(map[string]int),
	}
	for _, obj := range p.Store.All() {
		plan.ByID[obj.ID] = obj
	}

	plan.Areas = p.coreRoots(domain.TypeAOR, coreSource)
	plan.Relationships = p.coreRoots(domain.TypeRelationship, coreSource)

	domain.SortBuckets(buckets)
	for _, bucket := range buckets {
		plan.Sections = append(plan.Sections, outline.BucketSection{
			Bucket:  bucket,
			Members: p.bucketRoots(bucket.ID, s3Source),
		})
	}

	plan.ComingUp = p.comingUpRoots(s3Source)
	p.routeProjects(plan)

	return plan
}

// coreRoots selects the Core-owned objects of a type that render at the top
// level of their section
func (p *Pass) coreRoots(t domain.ObjectType, coreSource string) []*domain.LedgerObject {
	var roots []*domain.LedgerObject
	for _, obj := range p.Store.OfType(t) {
		if obj.SourceLocation != coreSource {
			continue
		}
		roots = append(roots, obj)
	}
	outline.SortObjects(roots)
	return roots
}

// bucketRoots selects the tasks rendering at the top of a bucket section:
// members whose parent is not itself a member, so nesting never duplicates
func (p *Pass) bucketRoots(bucketID, s3Source string) []*domain.LedgerObject {
	member := func(o *domain.LedgerObject) bool {
		return o.Type == domain.TypeTask && o.HasTag(bucketID) && o.SourceLocation == s3Source
	}
	var roots []*domain.LedgerObject
	for _, obj := range p.Store.OfType(domain.TypeTask) {
		if !member(obj) {
			continue
		}
		if parent, ok := p.Store.Get(obj.ParentID); ok && member(parent) {
			continue
		}
		roots = append(roots, obj)
	}
	outline.SortObjects(roots)
	return roots
}

// comingUpRoots selects the scheduling document's unbucketed tasks.
// Completed tasks land here too once their bucket tags are stripped, so
// they keep rendering (checked) instead of silently vanishing.
func (p *Pass) comingUpRoots(s3Source string) []*domain.LedgerObject {
	member := func(o *domain.LedgerObject) bool {
		return o.Type == domain.TypeTask && o.SourceLocation == s3Source && o.BucketTag() == ""
	}
	var roots []*domain.LedgerObject
	for _, obj := range p.Store.OfType(domain.TypeTask) {
		if !member(obj) {
			continue
		}
		if parent, ok := p.Store.Get(obj.ParentID); ok && member(parent) {
			continue
		}
		roots = append(roots, obj)
	}
	outline.SortObjects(roots)
	return roots
}

// routeProjects fills the per-project render sets. Tasks owned by the
// project file render in its Tasks section; tasks parented to the project
// but owned by another document route into its Orphaned Tasks section,
// best-effort, without moving ownership.
func (p *Pass) routeProjects(plan *Plan) {
	plan.Projects = p.Store.OfType(domain.TypeProject)
	outline.SortObjects(plan.Projects)

	byLocation := make(map[string]*domain.LedgerObject, len(plan.Projects))
	for _, project := range plan.Projects {
		byLocation[project.SourceLocation] = project
	}

	for _, task := range p.Store.OfType(domain.TypeTask) {
		project := p.owningProject(task, byLocation)
		if project == nil {
			continue
		}
		if !task.IsComplete() {
			plan.OpenTasks[project.ID]++
		}
		if parent, ok := p.Store.Get(task.ParentID); ok && parent.Type == domain.TypeTask &&
			parent.SourceLocation == task.SourceLocation {
			// Nested under another task of the same document; the tree
			// renderer emits it beneath its parent.
			continue
		}
		if task.SourceLocation == project.SourceLocation {
			plan.ProjectTasks[project.ID] = append(plan.ProjectTasks[project.ID], task)
		} else {
			plan.Orphans[project.ID] = append(plan.Orphans[project.ID], task)
			p.Stats.OrphansRouted++
		}
	}
	for id := range plan.ProjectTasks {
		outline.SortObjects(plan.ProjectTasks[id])
	}
	for id := range plan.Orphans {
		outline.SortObjects(plan.Orphans[id])
	}
}

// owningProject walks the parent chain to the project a task belongs to,
// falling back to the project owning the task's source document
func (p *Pass) owningProject(task *domain.LedgerObject, byLocation map[string]*domain.LedgerObject) *domain.LedgerObject {
	obj := task
	for depth := 0; obj != nil && depth < 32; depth++ {
		if obj.Type == domain.TypeProject {
			return obj
		}
		parent, ok := p.Store.Get(obj.ParentID)
		if !ok {
			break
		}
		obj = parent
	}
	if strings.HasSuffix(task.SourceLocation, ".md") {
		return byLocation[task.SourceLocation]
	}
	return nil
}

// LatestBuckets appends the synthetic catch-all bucket when the catalog
// does not define it, so unscheduled work always has a section
func LatestBuckets(catalog []domain.Bucket) []domain.Bucket {
	for _, b := range catalog {
		if b.ID == domain.UnscheduledBucket.ID {
			return catalog
		}
	}
	return append(catalog, domain.UnscheduledBucket)
}

// TodayLines renders the Today's Focus block from the latest card snapshot
func TodayLines(latest *CardSnapshot, store *ledger.Store) []string {
	if latest == nil {
		return nil
	}
	var lines []string
	for _, row := range latest.Rows {
		var obj *domain.LedgerObject
		text := row.Text
		if len(row.IDs) > 0 {
			if o, ok := store.Get(row.IDs[0]); ok {
				obj = o
				text = o.DisplayName
			} else {
				text = stripInlineIDs(text)
			}
		}
		checked := row.Checked
		if obj != nil && obj.IsComplete() {
			checked = true
		}
		lines = append(lines, outline.TodayFocusLine(row.Rank, checked, text, obj))
	}
	return lines
}

func stripInlineIDs(text string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("{", " ", "}", " ").Replace(text)), " ")
}
