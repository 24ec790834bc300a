package outline

import (
	"strings"
	"testing"

	"kinetic/internal/domain"
)

func newTask(id, name string, tags ...string) *domain.LedgerObject {
	obj := &domain.LedgerObject{ID: id, Type: domain.TypeTask, State: domain.StateActive}
	obj.Rename(name)
	for _, tag := range tags {
		obj.AddTag(tag)
	}
	return obj
}

func TestItemLine(t *testing.T) {
	obj := newTask("T3", "Draft quarterly plan", "S3-2", "writing")
	obj.AddPerson("@alex")

	got := ItemLine(obj, 0)
	want := "- [ ] Draft quarterly plan #writing @alex {T3}"
	if got != want {
		t.Errorf("ItemLine = %q, want %q", got, want)
	}

	obj.State = domain.StateComplete
	if !strings.HasPrefix(ItemLine(obj, 2), "  - [x] ") {
		t.Errorf("completed line = %q", ItemLine(obj, 2))
	}
}

func TestItemLineRendersTagsSorted(t *testing.T) {
	obj := newTask("T4", "Refile receipts", "zeta", "alpha")
	got := ItemLine(obj, 0)
	want := "- [ ] Refile receipts #alpha #zeta {T4}"
	if got != want {
		t.Errorf("ItemLine = %q, want %q", got, want)
	}
}

func TestItemLineRoundTrip(t *testing.T) {
	obj := newTask("T3", "Draft quarterly plan", "writing")
	obj.AddPerson("@alex")

	doc := NewParser(0).ParseText("S3.md", ItemLine(obj, 0))
	if len(doc.Items) != 1 {
		t.Fatalf("round trip lost the item")
	}
	item := doc.Items[0]
	if item.Text != obj.DisplayName || item.ExplicitID != obj.ID {
		t.Errorf("round trip: text=%q id=%q", item.Text, item.ExplicitID)
	}
	if len(item.Tags) != 1 || item.Tags[0] != "writing" {
		t.Errorf("round trip tags = %v", item.Tags)
	}
}

func TestRenderTreeNestsChildren(t *testing.T) {
	parent := newTask("P1.2", "Paint fence")
	child := newTask("P1.2.1", "Buy paint")
	child.ParentID = parent.ID
	parent.AddChild(child.ID)
	byID := map[string]*domain.LedgerObject{parent.ID: parent, child.ID: child}

	lines := RenderTree([]*domain.LedgerObject{parent}, byID, func(*domain.LedgerObject) bool { return true })
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if !strings.HasPrefix(lines[1], "  - [ ] Buy paint") {
		t.Errorf("child not nested: %q", lines[1])
	}
}

func TestRenderTreeNotes(t *testing.T) {
	obj := newTask("T1", "Call plumber")
	obj.Notes = "left voicemail\nquote pending"

	lines := RenderTree([]*domain.LedgerObject{obj}, nil, nil)
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[1] != "  - left voicemail" || lines[2] != "  - quote pending" {
		t.Errorf("notes rendered wrong: %v", lines[1:])
	}
}

func TestRenderTreeStableOrder(t *testing.T) {
	objs := []*domain.LedgerObject{newTask("T10", "b"), newTask("T2", "a"), newTask("T1", "c")}
	lines := RenderTree(objs, nil, nil)

	var ids []string
	for _, l := range lines {
		ids = append(ids, l[strings.Index(l, "{"):])
	}
	if ids[0] != "{T1}" || ids[1] != "{T2}" || ids[2] != "{T10}" {
		t.Errorf("order = %v", ids)
	}
}

func TestReplaceSection(t *testing.T) {
	doc := []string{
		"# Garden overhaul {P3}",
		"",
		"Some prose to keep.",
		"",
		"## Tasks",
		"",
		"- [ ] Old line {P3.1}",
		"",
		"## Notes",
		"",
		"Manual notes.",
	}

	out := ReplaceSection(doc, 2, "Tasks", []string{"- [ ] New line {P3.2}"})
	joined := strings.Join(out, "\n")

	if strings.Contains(joined, "Old line") {
		t.Error("old body survived")
	}
	if !strings.Contains(joined, "New line") {
		t.Error("new body missing")
	}
	if !strings.Contains(joined, "Some prose to keep.") || !strings.Contains(joined, "Manual notes.") {
		t.Error("unmanaged content lost")
	}
}

func TestReplaceSectionCreatesWhenAbsent(t *testing.T) {
	out := ReplaceSection([]string{"# Title", ""}, 2, "Orphaned Tasks", []string{"- [ ] Stray {T9}"})
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "## Orphaned Tasks") || !strings.Contains(joined, "{T9}") {
		t.Errorf("section not created:\n%s", joined)
	}
}

func TestRenderS3DocumentIdempotent(t *testing.T) {
	task := newTask("T1", "Write design doc", "S3-1")
	sections := []BucketSection{
		{Bucket: domain.Bucket{ID: "S3-1", DisplayName: "Deep Work", Description: "Focused blocks."}, Members: []*domain.LedgerObject{task}},
		{Bucket: domain.UnscheduledBucket},
	}
	byID := map[string]*domain.LedgerObject{task.ID: task}

	text := RenderS3Document(sections, nil, nil, byID)
	if !strings.Contains(text, "#### Deep Work (S3-1)") {
		t.Errorf("bucket heading missing:\n%s", text)
	}
	if !strings.Contains(text, PlaceholderLine("S3-0")) {
		t.Errorf("empty bucket placeholder missing:\n%s", text)
	}

	// Re-render of a re-parse yields the same bytes.
	doc := NewParser(0).ParseText("S3.md", text)
	if len(doc.Items) != 1 {
		t.Fatalf("placeholder leaked into items: %d", len(doc.Items))
	}
	again := RenderS3Document(sections, nil, nil, byID)
	if text != again {
		t.Error("render is not deterministic")
	}
}

func TestRenderCoreDocument(t *testing.T) {
	aor := &domain.LedgerObject{ID: "A1", Type: domain.TypeAOR, State: domain.StateActive}
	aor.Rename("Home upkeep")
	goal := &domain.LedgerObject{ID: "G1", Type: domain.TypeGoal, State: domain.StateActive, ParentID: "A1"}
	goal.Rename("Renovate kitchen")
	aor.AddChild("G1")
	rel := &domain.LedgerObject{ID: "R1", Type: domain.TypeRelationship, State: domain.StateActive}
	rel.Rename("Alex")
	rel.AddPerson("@alex")
	byID := map[string]*domain.LedgerObject{"A1": aor, "G1": goal, "R1": rel}

	text := RenderCoreDocument([]*domain.LedgerObject{aor}, []*domain.LedgerObject{rel}, byID)

	if !strings.Contains(text, "- [ ] Home upkeep {A1}") {
		t.Errorf("aor line missing:\n%s", text)
	}
	if !strings.Contains(text, "  - [ ] Renovate kitchen {G1}") {
		t.Errorf("goal not nested:\n%s", text)
	}
	if !strings.Contains(text, "- [ ] Alex @alex {R1}") {
		t.Errorf("relationship line missing:\n%s", text)
	}
}

func TestRenderProjectDocumentPreservesProse(t *testing.T) {
	project := &domain.LedgerObject{ID: "P3", Type: domain.TypeProject, State: domain.StateActive, SourceLocation: "Projects/garden.md"}
	project.Rename("Garden overhaul")
	task := newTask("P3.1", "Order soil")
	task.SourceLocation = "Projects/garden.md"
	task.ParentID = "P3"
	project.AddChild("P3.1")
	byID := map[string]*domain.LedgerObject{"P3": project, "P3.1": task}

	existing := []string{
		"# Garden overhaul {P3}",
		"",
		"Long-term plan for the back garden.",
		"",
		"## Tasks",
		"",
		"- [ ] Stale {P3.9}",
	}
	text := RenderProjectDocument(existing, project, []*domain.LedgerObject{task}, nil, byID)

	if !strings.Contains(text, "Long-term plan for the back garden.") {
		t.Error("prose lost")
	}
	if !strings.Contains(text, "- [ ] Order soil {P3.1}") || strings.Contains(text, "Stale") {
		t.Errorf("tasks section not replaced:\n%s", text)
	}
	if strings.Contains(text, "## Orphaned Tasks") {
		t.Error("orphan section created without members")
	}
}

func TestNormalizeSpacingStable(t *testing.T) {
	lines := []string{"", "# A", "", "", "", "body", "", ""}
	once := NormalizeSpacing(lines)
	twice := NormalizeSpacing(strings.Split(strings.TrimRight(once, "\n"), "\n"))
	if once != twice {
		t.Errorf("normalization not idempotent:\n%q\n%q", once, twice)
	}
	if !strings.HasSuffix(once, "\n") || strings.HasSuffix(once, "\n\n") {
		t.Errorf("trailing newline wrong: %q", once)
	}
}
