package outline

import (
	"fmt"
	"slices"
	"strings"

	"kinetic/internal/domain"
)

// Reserved headings recognized across the managed documents
const (
	CoreTitle      = "The Core"
	SectionAreas   = "Areas of Responsibility"
	SectionPeople  = "Relationships"
	S3Title        = "Simplified Scheduled System (S3)"
	SectionToday   = "Today's Focus"
	SectionBuckets = "Active Buckets"
	SectionComing  = "Coming Up"
	SectionTasks   = "Tasks"
	SectionOrphans = "Orphaned Tasks"
	SectionManual  = "Manual Projects"
	ProjectsTitle  = "Projects"
	SectionFiles   = "Projects with Files"
)

// BucketSection pairs a scheduling bucket with its current members
type BucketSection struct {
	Bucket  domain.Bucket
	Members []*domain.LedgerObject
}

// RenderS3Document regenerates the scheduling surface: a Today's Focus
// block from the latest snapshot card, one section per bucket, and a
// Coming Up section for unbucketed tasks
func RenderS3Document(sections []BucketSection, comingUp []*domain.LedgerObject, todayLines []string, byID map[string]*domain.LedgerObject) string {
	lines := []string{"## " + S3Title, "", "### " + SectionToday, ""}
	if len(todayLines) > 0 {
		lines = append(lines, todayLines...)
	} else {
		lines = append(lines, "_No ranked tasks for today._")
	}

	lines = append(lines, "", "### "+SectionBuckets, "")
	for _, section := range sections {
		header := fmt.Sprintf("#### %s (%s)", section.Bucket.DisplayName, section.Bucket.ID)
		lines = append(lines, header, "")
		if section.Bucket.Description != "" {
			lines = append(lines, section.Bucket.Description, "")
		}
		if len(section.Members) == 0 {
			lines = append(lines, PlaceholderLine(section.Bucket.ID), "")
			continue
		}
		bucketID := section.Bucket.ID
		member := func(o *domain.LedgerObject) bool {
			return o.Type == domain.TypeTask && o.HasTag(bucketID)
		}
		lines = append(lines, RenderTree(section.Members, byID, member)...)
		lines = append(lines, "")
	}

	lines = append(lines, "", "### "+SectionComing, "")
	if len(comingUp) == 0 {
		lines = append(lines, "_No untagged tasks at the moment._")
	} else {
		member := func(o *domain.LedgerObject) bool {
			return o.Type == domain.TypeTask && o.BucketTag() == ""
		}
		lines = append(lines, RenderTree(comingUp, byID, member)...)
	}

	return NormalizeSpacing(lines)
}

// RenderCoreDocument regenerates the Core surface: areas of responsibility
// with their goals nested beneath them, then relationships
func RenderCoreDocument(aors, relationships []*domain.LedgerObject, byID map[string]*domain.LedgerObject) string {
	lines := []string{"# " + CoreTitle, "", "## " + SectionAreas, ""}

	goalMember := func(o *domain.LedgerObject) bool { return o.Type == domain.TypeGoal }
	if len(aors) == 0 {
		lines = append(lines, PlaceholderLine(""))
	} else {
		lines = append(lines, RenderTree(aors, byID, goalMember)...)
	}

	lines = append(lines, "", "## "+SectionPeople, "")
	if len(relationships) == 0 {
		lines = append(lines, PlaceholderLine(""))
	} else {
		lines = append(lines, RenderTree(relationships, byID, func(*domain.LedgerObject) bool { return false })...)
	}

	return NormalizeSpacing(lines)
}

// RenderProjectDocument splices the managed Tasks and Orphaned Tasks
// sections of a project file, updates the title heading, and preserves all
// other content verbatim. The Orphaned Tasks section is only created when
// it has members.
func RenderProjectDocument(existing []string, project *domain.LedgerObject, tasks, orphans []*domain.LedgerObject, byID map[string]*domain.LedgerObject) string {
	member := func(o *domain.LedgerObject) bool {
		return o.Type == domain.TypeTask && o.SourceLocation == project.SourceLocation
	}

	lines := updateTitleHeading(existing, project)

	var taskBody []string
	if len(tasks) == 0 {
		taskBody = []string{PlaceholderLine("")}
	} else {
		taskBody = RenderTree(tasks, byID, member)
	}
	lines = ReplaceSection(lines, 2, SectionTasks, taskBody)

	if len(orphans) > 0 {
		lines = ReplaceSection(lines, 2, SectionOrphans, RenderTree(orphans, byID, member))
	}

	return NormalizeSpacing(lines)
}

// RenderProjectsIndex regenerates the auto-derived project summary list,
// preserving everything from the Manual Projects heading onward
func RenderProjectsIndex(existing []string, projects []*domain.LedgerObject, openTasks map[string]int) string {
	lines := []string{"# " + ProjectsTitle, "", "## " + SectionFiles, ""}

	SortObjects(projects)
	for _, p := range projects {
		lines = append(lines, fmt.Sprintf("### %s {%s}", p.DisplayName, p.ID), "")
		state := p.State
		if state == "" {
			state = domain.StateActive
		}
		lines = append(lines,
			"- Status: "+state,
			fmt.Sprintf("- Open Tasks: %d", openTasks[p.ID]),
			fmt.Sprintf("- File: [%s](%s)", p.SourceLocation, p.SourceLocation),
			"")
	}

	manual := []string{"## " + SectionManual, ""}
	if start, _, ok := FindSectionBounds(existing, 2, SectionManual); ok {
		manual = existing[start:]
	}
	lines = append(lines, "")
	lines = append(lines, manual...)

	return NormalizeSpacing(lines)
}

// updateTitleHeading rewrites (or prepends) the depth-1 heading of a
// project file so it carries the project's current name and id
func updateTitleHeading(lines []string, project *domain.LedgerObject) []string {
	title := fmt.Sprintf("# %s {%s}", project.DisplayName, project.ID)
	for i, raw := range lines {
		if m := headingRegex.FindStringSubmatch(raw); m != nil && len(m[1]) == 1 {
			out := make([]string, len(lines))
			copy(out, lines)
			out[i] = title
			return out
		}
	}
	return append([]string{title, ""}, lines...)
}

// TodayFocusLine renders one ranked snapshot-card row for the Today's
// Focus section
func TodayFocusLine(rank int, checked bool, text string, obj *domain.LedgerObject) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s %s", rank, box, text)
	if obj != nil {
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
	}
	return b.String()
}
