// Package ledgercsv persists the canonical tables as CSV files: the object
// ledger, the append-only tombstone record, and the bucket catalog. Writes
// go through a temp file and rename so a crash never leaves a torn table.
package ledgercsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"kinetic/internal/domain"
)

const timeLayout = time.RFC3339

// listSeparator joins multi-valued columns (tags, people, child ids)
const listSeparator = ";"

var ledgerHeader = []string{
	"Object ID",
	"Type",
	"Canonical Name (Checksum)",
	"Canonical Name (Text)",
	"Colloquial Name",
	"Current State",
	"File Location",
	"Tags",
	"People",
	"Parent Object ID",
	"Child Object IDs",
	"Notes",
	"Created At",
	"Last Modified At",
}

// LedgerFile implements ports.LedgerRepository over one CSV file
type LedgerFile struct {
	path string
}

// NewLedgerFile returns a repository backed by the given file path
func NewLedgerFile(path string) *LedgerFile {
	return &LedgerFile{path: path}
}

// Load reads and validates all ledger rows. A missing file is an empty
// ledger; a malformed row fails the whole load.
func (f *LedgerFile) Load() ([]*domain.LedgerObject, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0], ledgerHeader); err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}

	objects := make([]*domain.LedgerObject, 0, len(records)-1)
	for i, row := range records[1:] {
		obj, err := decodeObject(row)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// Save replaces the ledger table atomically
func (f *LedgerFile) Save(objects []*domain.LedgerObject) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ledgerHeader); err != nil {
		return err
	}
	for _, obj := range objects {
		if err := w.Write(encodeObject(obj)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeAtomic(f.path, buf.Bytes())
}

func decodeObject(row []string) (*domain.LedgerObject, error) {
	if len(row) != len(ledgerHeader) {
		return nil, fmt.Errorf("want %d columns, got %d", len(ledgerHeader), len(row))
	}
	id := strings.TrimSpace(row[0])
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}
	t := domain.ParseObjectType(row[1])
	if t == domain.TypeUnknown {
		return nil, fmt.Errorf("unknown object type %q", row[1])
	}
	parentID := strings.TrimSpace(row[9])
	if parentID != "" {
		if err := domain.ValidateID(parentID); err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
	}
	createdAt, err := parseTime(row[12])
	if err != nil {
		return nil, fmt.Errorf("created at: %w", err)
	}
	modifiedAt, err := parseTime(row[13])
	if err != nil {
		return nil, fmt.Errorf("last modified at: %w", err)
	}

	obj := &domain.LedgerObject{
		ID:             id,
		Type:           t,
		Checksum:       strings.TrimSpace(row[2]),
		CanonicalText:  strings.TrimSpace(row[3]),
		DisplayName:    strings.TrimSpace(row[4]),
		State:          strings.TrimSpace(row[5]),
		SourceLocation: strings.TrimSpace(row[6]),
		Tags:           splitList(row[7]),
		People:         splitList(row[8]),
		ParentID:       parentID,
		ChildIDs:       splitList(row[10]),
		Notes:          row[11],
		CreatedAt:      createdAt,
		ModifiedAt:     modifiedAt,
	}
	// Checksum and canonical text are derived; missing values are healed,
	// mismatching ones rejected.
	canonical := domain.CanonicalText(obj.DisplayName)
	if obj.CanonicalText == "" {
		obj.CanonicalText = canonical
	} else if obj.CanonicalText != canonical {
		return nil, fmt.Errorf("canonical text %q does not match name %q", obj.CanonicalText, obj.DisplayName)
	}
	sum := domain.Checksum(obj.CanonicalText)
	if obj.Checksum == "" {
		obj.Checksum = sum
	} else if obj.Checksum != sum {
		return nil, fmt.Errorf("checksum mismatch for %s", obj.ID)
	}
	return obj, nil
}

func encodeObject(obj *domain.LedgerObject) []string {
	return []string{
		obj.ID,
		obj.Type.String(),
		obj.Checksum,
		obj.CanonicalText,
		obj.DisplayName,
		obj.State,
		obj.SourceLocation,
		strings.Join(obj.Tags, listSeparator),
		strings.Join(obj.People, listSeparator),
		obj.ParentID,
		strings.Join(obj.ChildIDs, listSeparator),
		obj.Notes,
		formatTime(obj.CreatedAt),
		formatTime(obj.ModifiedAt),
	}
}

func checkHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("want %d header columns, got %d", len(want), len(got))
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return fmt.Errorf("header column %d is %q, want %q", i+1, got[i], want[i])
		}
	}
	return nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
