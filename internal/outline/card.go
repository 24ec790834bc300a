package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"kinetic/internal/domain"
)

// Daily cards carry a ranked table inside an HTML comment block, so the
// rest of the card file stays free-form. Only the block is machine-managed.
const (
	CardBlockStart = "<!-- kinetic:card -->"
	CardBlockEnd   = "<!-- /kinetic:card -->"
)

var cardRowRegex = regexp.MustCompile(`^\|\s*([0-9]+)\s*\|\s*\[([ xX])\]\s*\|\s*(.*?)\s*\|\s*$`)

// CardRow is one ranked entry of a daily card table
type CardRow struct {
	Rank    int
	Checked bool
	Text    string   // display text including inline id annotations
	IDs     []string // object ids referenced by the row
}

// ParseCardTable extracts the ranked rows from a card file. Lines outside
// the marker block and table scaffolding rows are ignored.
func ParseCardTable(lines []string) []CardRow {
	var rows []CardRow
	inBlock := false
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		switch trimmed {
		case CardBlockStart:
			inBlock = true
			continue
		case CardBlockEnd:
			inBlock = false
			continue
		}
		if !inBlock {
			continue
		}
		m := cardRowRegex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		row := CardRow{
			Rank:    rank,
			Checked: m[2] == "x" || m[2] == "X",
			Text:    m[3],
		}
		for _, idm := range braceIDRegex.FindAllStringSubmatch(m[3], -1) {
			row.IDs = append(row.IDs, idm[1])
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderCardTable renders the marker block with one row per object, ranked
// in the given order
func RenderCardTable(objs []*domain.LedgerObject) []string {
	out := []string{
		CardBlockStart,
		"| Rank | Done | Item |",
		"| ---- | ---- | ---- |",
	}
	for i, obj := range objs {
		box := "[ ]"
		if obj.IsComplete() {
			box = "[x]"
		}
		out = append(out, fmt.Sprintf("| %d | %s | %s {%s} |", i+1, box, obj.DisplayName, obj.ID))
	}
	out = append(out, CardBlockEnd)
	return out
}

// CardIDs returns the distinct object ids referenced by any row, in first
// appearance order
func CardIDs(rows []CardRow) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, id := range row.IDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// CheckedCardIDs returns the distinct object ids referenced by checked rows
func CheckedCardIDs(rows []CardRow) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if !row.Checked {
			continue
		}
		for _, id := range row.IDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
