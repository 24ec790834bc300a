package commands

import (
	"context"
	"strings"

	"kinetic/internal/application"
	"kinetic/internal/domain"
	"kinetic/internal/ports"
)

// SearchCommand queries the derived sqlite index, rebuilding it from the
// ledger first when asked (or when it has never been populated)
type SearchCommand struct {
	Ledger ports.LedgerRepository
	Index  ports.LedgerIndex
	Query  string

	// Refresh forces an index rebuild before searching
	Refresh bool
}

// SearchResult contains the matched rows
type SearchResult struct {
	Hits    []domain.SearchHit
	Message string
}

// Validate checks the command inputs
func (c *SearchCommand) Validate() error {
	if c.Index == nil {
		return &application.ValidationError{Field: "search", Message: "missing index"}
	}
	if strings.TrimSpace(c.Query) == "" {
		return &application.ValidationError{Field: "query", Message: "query is required"}
	}
	return nil
}

// Execute runs the search
func (c *SearchCommand) Execute(ctx context.Context) (*SearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Refresh && c.Ledger != nil {
		objects, err := c.Ledger.Load()
		if err != nil {
			return nil, err
		}
		if err := c.Index.Rebuild(objects); err != nil {
			return nil, err
		}
	}

	hits, err := c.Index.Search(c.Query)
	if err != nil {
		return nil, err
	}
	message := "No matches"
	if len(hits) > 0 {
		message = ""
	}
	return &SearchResult{Hits: hits, Message: message}, nil
}
