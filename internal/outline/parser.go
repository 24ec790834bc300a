// Package outline parses managed markdown documents into heading trees and
// checkbox-item forests, and renders ledger state back into the managed
// sections. Parsing and rendering are inverses: re-parsing rendered output
// yields the same structure.
package outline

import (
	"regexp"
	"strings"

	"kinetic/internal/domain"
)

// Placeholder is the sentinel body rendered when a managed section has no
// members. The parser discards it rather than treating it as an item.
const Placeholder = "_(No tracked items)_"

// DefaultTabWidth is the column width tabs expand to when computing
// indentation depth
const DefaultTabWidth = 4

var (
	headingRegex  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	checkboxRegex = regexp.MustCompile(`^([ \t]*)[-*]\s*\[([ xX])\]\s*(.*)$`)
	// A line that starts like a checkbox but fails the full pattern is
	// malformed and skipped, never folded into notes.
	almostCheckboxRegex = regexp.MustCompile(`^[ \t]*[-*]\s*\[`)
	bulletRegex         = regexp.MustCompile(`^([ \t]*)[-*]\s+(.*)$`)

	braceIDRegex  = regexp.MustCompile(`\{([AGRPTC][0-9]+(?:\.[0-9]+)*)\}`)
	markerIDRegex = regexp.MustCompile(`\[Object ID:\s*([AGRPTC][0-9]+(?:\.[0-9]+)*)\]`)
	tagRegex      = regexp.MustCompile(`(^|\s)#([A-Za-z0-9][A-Za-z0-9_-]*)`)
	personRegex   = regexp.MustCompile(`(^|\s)(@[A-Za-z0-9][A-Za-z0-9._-]*)`)
)

// Document is the parse result for one managed document
type Document struct {
	Source    string // repo-relative path
	Lines     []string
	Root      *domain.HeadingNode // depth 0 pseudo-node titled after the source
	Items     []*domain.ParsedItem
	Malformed int // lines resembling a checkbox that failed to parse
}

// Parser turns document lines into structural trees
type Parser struct {
	tabWidth int
}

// NewParser returns a parser with the given tab expansion width;
// width <= 0 means DefaultTabWidth
func NewParser(tabWidth int) *Parser {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return &Parser{tabWidth: tabWidth}
}

// Parse builds the heading tree and checkbox-item forest for a document
func (p *Parser) Parse(source string, lines []string) *Document {
	doc := &Document{
		Source: source,
		Lines:  lines,
		Root:   &domain.HeadingNode{Title: source, Depth: 0},
	}

	heading := doc.Root
	// Item stack: open items ordered by strictly increasing indentation.
	var stack []*domain.ParsedItem
	var lastItem *domain.ParsedItem

	for i, raw := range lines {
		if m := headingRegex.FindStringSubmatch(raw); m != nil {
			node := &domain.HeadingNode{
				Title: m[2],
				Depth: len(m[1]),
				Line:  i + 1,
			}
			if id := extractHeadingID(node); id != "" {
				node.ObjectID = id
			}
			parent := heading
			for parent != doc.Root && parent.Depth >= node.Depth {
				parent = parent.Parent
			}
			node.Parent = parent
			parent.Children = append(parent.Children, node)
			heading = node
			stack = stack[:0]
			lastItem = nil
			continue
		}

		if m := checkboxRegex.FindStringSubmatch(raw); m != nil {
			indent := expandIndent(m[1], p.tabWidth)
			item := &domain.ParsedItem{
				Line:    i + 1,
				Indent:  indent,
				Checked: m[2] == "x" || m[2] == "X",
				Heading: heading,
			}
			text := m[3]
			text, item.ExplicitID = extractID(text)
			text, item.Tags = extractTags(text)
			text, item.People = extractPeople(text)
			item.Text = collapseSpaces(text)

			if strings.HasPrefix(item.Text, Placeholder) || item.Text == "" {
				// Empty-section sentinel (or an id-only line): not an item.
				// Bucket placeholders carry a non-object "{S3-N}" suffix the
				// id extractor leaves in place.
				continue
			}

			for len(stack) > 0 && stack[len(stack)-1].Indent >= indent {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				item.Parent = parent
				parent.Children = append(parent.Children, item)
			} else {
				heading.Items = append(heading.Items, item)
				doc.Items = append(doc.Items, item)
			}
			stack = append(stack, item)
			lastItem = item
			continue
		}

		if almostCheckboxRegex.MatchString(raw) {
			doc.Malformed++
			continue
		}

		// Free-text note lines attach to the nearest preceding item when
		// more indented than it. Headings never become notes.
		if lastItem != nil && strings.TrimSpace(raw) != "" && !strings.HasPrefix(strings.TrimSpace(raw), "#") {
			noteIndent, body := noteLine(raw, p.tabWidth)
			if body != "" && noteIndent > lastItem.Indent {
				lastItem.NoteLines = append(lastItem.NoteLines, body)
				continue
			}
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		// Ordinary prose outside any item: resets note accumulation.
		lastItem = nil
	}

	return doc
}

// ParseText is a convenience wrapper splitting the document into lines first
func (p *Parser) ParseText(source, text string) *Document {
	return p.Parse(source, strings.Split(strings.TrimRight(text, "\n"), "\n"))
}

func expandIndent(ws string, tabWidth int) int {
	cols := 0
	for _, r := range ws {
		if r == '\t' {
			cols += tabWidth - cols%tabWidth
		} else {
			cols++
		}
	}
	return cols
}

// extractID removes an inline id annotation from the text. Both the
// rendered form "{T12}" and the long form "[Object ID: T12]" are accepted.
func extractID(text string) (string, string) {
	if m := braceIDRegex.FindStringSubmatch(text); m != nil {
		return collapseSpaces(braceIDRegex.ReplaceAllString(text, " ")), m[1]
	}
	if m := markerIDRegex.FindStringSubmatch(text); m != nil {
		return collapseSpaces(markerIDRegex.ReplaceAllString(text, " ")), m[1]
	}
	return text, ""
}

func extractHeadingID(node *domain.HeadingNode) string {
	text, id := extractID(node.Title)
	if id != "" {
		node.Title = text
	}
	return id
}

func extractTags(text string) (string, []string) {
	var tags []string
	for _, m := range tagRegex.FindAllStringSubmatch(text, -1) {
		tags = append(tags, m[2])
	}
	if tags == nil {
		return text, nil
	}
	return collapseSpaces(tagRegex.ReplaceAllString(text, "$1")), tags
}

func extractPeople(text string) (string, []string) {
	var people []string
	for _, m := range personRegex.FindAllStringSubmatch(text, -1) {
		people = append(people, m[2])
	}
	if people == nil {
		return text, nil
	}
	return collapseSpaces(personRegex.ReplaceAllString(text, "$1")), people
}

// noteLine strips the optional bullet from a free-text line, returning its
// indentation and body. Renderer and parser agree on this shape so notes
// survive a render/re-parse cycle unchanged.
func noteLine(raw string, tabWidth int) (int, string) {
	if m := bulletRegex.FindStringSubmatch(raw); m != nil {
		return expandIndent(m[1], tabWidth), strings.TrimSpace(m[2])
	}
	trimmed := strings.TrimLeft(raw, " \t")
	return expandIndent(raw[:len(raw)-len(trimmed)], tabWidth), strings.TrimSpace(trimmed)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
