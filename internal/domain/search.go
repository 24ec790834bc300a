package domain

// SearchHit is one row returned by a ledger search, whether from the
// in-memory store or the sqlite index
type SearchHit struct {
	ID             string
	Type           ObjectType
	DisplayName    string
	State          string
	SourceLocation string
	Tags           []string
	Snippet        string // matched text fragment, "" when the name matched
}
