package outline

import (
	"slices"
	"strings"
	"testing"

	"kinetic/internal/domain"
)

func parseLines(t *testing.T, text string) *Document {
	t.Helper()
	return NewParser(0).ParseText("S3.md", text)
}

func TestParseCheckboxLine(t *testing.T) {
	doc := parseLines(t, "- [ ] Draft quarterly plan #S3-2 @alex\n")

	if len(doc.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(doc.Items))
	}
	item := doc.Items[0]
	if item.Text != "Draft quarterly plan" {
		t.Errorf("text = %q", item.Text)
	}
	if item.Checked {
		t.Error("unchecked item parsed as checked")
	}
	if !slices.Equal(item.Tags, []string{"S3-2"}) {
		t.Errorf("tags = %v", item.Tags)
	}
	if !slices.Equal(item.People, []string{"@alex"}) {
		t.Errorf("people = %v", item.People)
	}
}

func TestParseExplicitID(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantID string
		text   string
	}{
		{"brace form", "- [x] Fix the roof {T12}", "T12", "Fix the roof"},
		{"marker form", "- [ ] Fix the roof [Object ID: T12]", "T12", "Fix the roof"},
		{"hierarchical", "- [ ] Subtask {P3.2}", "P3.2", "Subtask"},
		{"mid-line", "- [ ] Fix {T12} the roof", "T12", "Fix the roof"},
		{"none", "- [ ] Fix the roof", "", "Fix the roof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseLines(t, tt.line+"\n")
			if len(doc.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(doc.Items))
			}
			if doc.Items[0].ExplicitID != tt.wantID {
				t.Errorf("id = %q, want %q", doc.Items[0].ExplicitID, tt.wantID)
			}
			if doc.Items[0].Text != tt.text {
				t.Errorf("text = %q, want %q", doc.Items[0].Text, tt.text)
			}
		})
	}
}

func TestParseNesting(t *testing.T) {
	text := strings.Join([]string{
		"- [ ] Parent",
		"  - [ ] Child",
		"    - [ ] Grandchild",
		"  - [ ] Second child",
		"- [ ] Sibling",
	}, "\n")
	doc := parseLines(t, text)

	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(doc.Items))
	}
	parent := doc.Items[0]
	if len(parent.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(parent.Children))
	}
	if len(parent.Children[0].Children) != 1 {
		t.Errorf("grandchild not nested under first child")
	}
	if parent.Children[1].Text != "Second child" {
		t.Errorf("second child = %q", parent.Children[1].Text)
	}
	if doc.Items[1].Parent != nil {
		t.Error("sibling should be a root")
	}
}

func TestTabIndentation(t *testing.T) {
	doc := parseLines(t, "- [ ] Parent\n\t- [ ] Tab child\n")
	if len(doc.Items) != 1 || len(doc.Items[0].Children) != 1 {
		t.Fatal("tab-indented line did not nest under parent")
	}
	if doc.Items[0].Children[0].Indent != DefaultTabWidth {
		t.Errorf("indent = %d, want %d", doc.Items[0].Children[0].Indent, DefaultTabWidth)
	}
}

func TestHeadingTreeAndAttachment(t *testing.T) {
	text := strings.Join([]string{
		"## Simplified Scheduled System (S3)",
		"",
		"#### Deep Work (S3-1)",
		"",
		"- [ ] Write design doc",
		"",
		"#### Errands (S3-2)",
		"",
		"- [ ] Buy stamps",
	}, "\n")
	doc := parseLines(t, text)

	top := doc.Root.Children
	if len(top) != 1 || top[0].Depth != 2 {
		t.Fatalf("unexpected top headings: %+v", top)
	}
	if len(top[0].Children) != 2 {
		t.Fatalf("expected 2 bucket headings, got %d", len(top[0].Children))
	}
	deep := top[0].Children[0]
	if len(deep.Items) != 1 || deep.Items[0].Text != "Write design doc" {
		t.Errorf("item not attached to its bucket heading")
	}
	if doc.Items[1].Heading.Title != "Errands (S3-2)" {
		t.Errorf("second item heading = %q", doc.Items[1].Heading.Title)
	}
}

func TestHeadingObjectID(t *testing.T) {
	doc := parseLines(t, "# Garden overhaul {P3}\n\n- [ ] Order soil\n")
	h := doc.Root.Children[0]
	if h.ObjectID != "P3" {
		t.Errorf("heading id = %q", h.ObjectID)
	}
	if h.Title != "Garden overhaul" {
		t.Errorf("heading title = %q", h.Title)
	}
}

func TestNotesAccumulation(t *testing.T) {
	text := strings.Join([]string{
		"- [ ] Call the plumber",
		"  - left a voicemail Tuesday",
		"  - quote expected this week",
		"- [ ] Unrelated",
	}, "\n")
	doc := parseLines(t, text)

	notes := doc.Items[0].NoteLines
	if !slices.Equal(notes, []string{"left a voicemail Tuesday", "quote expected this week"}) {
		t.Errorf("notes = %v", notes)
	}
	if len(doc.Items[0].Children) != 0 {
		t.Error("note lines must not become child items")
	}
	if len(doc.Items[1].NoteLines) != 0 {
		t.Error("notes leaked onto the following item")
	}
}

func TestHeadingNeverBecomesNote(t *testing.T) {
	doc := parseLines(t, "- [ ] Item\n  ## Stray heading\n")
	if len(doc.Items[0].NoteLines) != 0 {
		t.Errorf("heading captured as note: %v", doc.Items[0].NoteLines)
	}
}

func TestPlaceholderDiscarded(t *testing.T) {
	doc := parseLines(t, "- [ ] _(No tracked items)_ {S3-2}\n- [ ] _(No tracked items)_\n")
	if len(doc.Items) != 0 {
		t.Errorf("placeholder lines parsed as items: %d", len(doc.Items))
	}
}

func TestMalformedCheckboxSkipped(t *testing.T) {
	doc := parseLines(t, "- [y] not a real state\n- [ broken\n- [ ] Good one\n")
	if len(doc.Items) != 1 || doc.Items[0].Text != "Good one" {
		t.Fatalf("items = %+v", doc.Items)
	}
	if doc.Malformed != 2 {
		t.Errorf("malformed count = %d, want 2", doc.Malformed)
	}
}

func TestCheckedState(t *testing.T) {
	doc := parseLines(t, "- [x] lower\n- [X] upper\n- [ ] open\n")
	if !doc.Items[0].Checked || !doc.Items[1].Checked || doc.Items[2].Checked {
		t.Error("checkbox states parsed incorrectly")
	}
}

func TestItemForestFlatten(t *testing.T) {
	text := "- [ ] a\n  - [ ] b\n- [ ] c\n"
	doc := parseLines(t, text)
	all := domain.AllItems(doc.Items)
	if len(all) != 3 {
		t.Errorf("flattened %d items, want 3", len(all))
	}
}
