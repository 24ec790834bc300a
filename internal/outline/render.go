package outline

import (
	"fmt"
	"slices"
	"strings"

	"kinetic/internal/domain"
)

const indentStep = 2

// ItemLine renders one ledger object as a checkbox line at the given
// indentation: "- [ ] Text #tag @person {T12}". Bucket tags are never
// rendered inline; section membership expresses them.
func ItemLine(obj *domain.LedgerObject, indent int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", indent))
	if obj.IsComplete() {
		b.WriteString("- [x] ")
	} else {
		b.WriteString("- [ ] ")
	}
	b.WriteString(obj.DisplayName)
	var tags []string
	for _, tag := range obj.Tags {
		if !domain.IsBucketTag(tag) && tag != domain.TagToday {
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	for _, tag := range tags {
		b.WriteString(" #")
		b.WriteString(tag)
	}
	for _, person := range obj.People {
		b.WriteString(" ")
		b.WriteString(person)
	}
	fmt.Fprintf(&b, " {%s}", obj.ID)
	return b.String()
}

// PlaceholderLine renders the empty-section sentinel, optionally annotated
// with the section's bucket id
func PlaceholderLine(sectionID string) string {
	if sectionID == "" {
		return "- [ ] " + Placeholder
	}
	return fmt.Sprintf("- [ ] %s {%s}", Placeholder, sectionID)
}

// SortObjects orders objects by the stable id sort key
func SortObjects(objs []*domain.LedgerObject) {
	slices.SortStableFunc(objs, func(a, b *domain.LedgerObject) int {
		return domain.CompareIDs(a.ID, b.ID)
	})
}

// RenderTree renders the objects and, nested beneath each, any children
// that belong to the same managed section (per the member predicate).
// Notes render as indented plain bullets under their item.
func RenderTree(roots []*domain.LedgerObject, byID map[string]*domain.LedgerObject, member func(*domain.LedgerObject) bool) []string {
	SortObjects(roots)
	var out []string
	var render func(obj *domain.LedgerObject, indent int)
	render = func(obj *domain.LedgerObject, indent int) {
		out = append(out, ItemLine(obj, indent))
		for _, line := range strings.Split(obj.Notes, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, strings.Repeat(" ", indent+indentStep)+"- "+line)
			}
		}
		children := make([]*domain.LedgerObject, 0, len(obj.ChildIDs))
		for _, id := range obj.ChildIDs {
			child, ok := byID[id]
			if ok && (member == nil || member(child)) {
				children = append(children, child)
			}
		}
		SortObjects(children)
		for _, child := range children {
			render(child, indent+indentStep)
		}
	}
	for _, obj := range roots {
		render(obj, 0)
	}
	return out
}

// FindSectionBounds locates a heading by depth and title (canonical
// comparison, inline id annotations ignored) and returns the index of the
// heading line and the exclusive end of its body (the next heading at the
// same or lesser depth, or end of document). ok is false when absent.
func FindSectionBounds(lines []string, depth int, title string) (start, end int, ok bool) {
	want := domain.CanonicalText(title)
	for i, raw := range lines {
		m := headingRegex.FindStringSubmatch(raw)
		if m == nil || len(m[1]) != depth {
			continue
		}
		heading, _ := extractID(m[2])
		if domain.CanonicalText(heading) != want {
			continue
		}
		end = len(lines)
		for j := i + 1; j < len(lines); j++ {
			if mm := headingRegex.FindStringSubmatch(lines[j]); mm != nil && len(mm[1]) <= depth {
				end = j
				break
			}
		}
		return i, end, true
	}
	return 0, 0, false
}

// ReplaceSection swaps the body of a managed section, keeping the heading
// line itself, and creates the section at the end of the document when
// absent. The body is framed with single blank lines.
func ReplaceSection(lines []string, depth int, title string, body []string) []string {
	framed := append([]string{""}, body...)
	framed = append(framed, "")

	start, end, ok := FindSectionBounds(lines, depth, title)
	if !ok {
		heading := strings.Repeat("#", depth) + " " + title
		out := slices.Clone(lines)
		out = trimTrailingBlank(out)
		out = append(out, "", heading)
		return append(out, framed...)
	}

	out := make([]string, 0, len(lines)+len(framed))
	out = append(out, lines[:start+1]...)
	out = append(out, framed...)
	out = append(out, lines[end:]...)
	return out
}

// NormalizeSpacing collapses blank-line runs and guarantees a trailing
// newline, so rendering is byte-stable across passes
func NormalizeSpacing(lines []string) string {
	var cleaned []string
	blank := true // swallow leading blanks
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		if line == "" {
			if !blank {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		cleaned = append(cleaned, line)
		blank = false
	}
	cleaned = trimTrailingBlank(cleaned)
	return strings.Join(cleaned, "\n") + "\n"
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
