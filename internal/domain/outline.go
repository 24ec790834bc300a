package domain

// Transient parse entities. These exist only during one reconciliation
// pass and are never persisted.

// HeadingNode is a node in a document's heading tree
type HeadingNode struct {
	Title    string
	Depth    int // number of leading '#'
	Line     int
	ObjectID string // inline id annotation on the heading, if any
	Parent   *HeadingNode
	Children []*HeadingNode
	Items    []*ParsedItem // checkbox items directly under this heading
}

// Walk visits the node and all descendants depth-first
func (h *HeadingNode) Walk(fn func(*HeadingNode)) {
	fn(h)
	for _, child := range h.Children {
		child.Walk(fn)
	}
}

// FindTitle returns the first descendant heading whose title matches
// canonically, or nil
func (h *HeadingNode) FindTitle(title string) *HeadingNode {
	want := CanonicalText(title)
	var found *HeadingNode
	h.Walk(func(n *HeadingNode) {
		if found == nil && CanonicalText(n.Title) == want {
			found = n
		}
	})
	return found
}

// ParsedItem is one checkbox line with its indentation-derived structure
type ParsedItem struct {
	Line       int
	Indent     int // indentation in expanded columns
	Checked    bool
	Text       string // display text, id/tag/person tokens removed
	ExplicitID string // inline id annotation, "" if absent
	Tags       []string
	People     []string
	NoteLines  []string // more-indented free-text lines following the item
	Parent     *ParsedItem
	Children   []*ParsedItem
	Heading    *HeadingNode // enclosing heading, nil at document top level
}

// AllItems flattens an item forest depth-first
func AllItems(roots []*ParsedItem) []*ParsedItem {
	var out []*ParsedItem
	var walk func(items []*ParsedItem)
	walk = func(items []*ParsedItem) {
		for _, item := range items {
			out = append(out, item)
			walk(item.Children)
		}
	}
	walk(roots)
	return out
}
