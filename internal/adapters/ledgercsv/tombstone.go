package ledgercsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"kinetic/internal/domain"
)

var tombstoneHeader = []string{
	"Object ID",
	"Canonical Name",
	"Date of Deletion",
	"Origin File",
	"Reason",
	"Notes",
}

// tombstonePreamble is written above the header. Comment lines are skipped
// on read, so hand-added remarks survive nothing but stay harmless.
var tombstonePreamble = []string{
	"# Tombstone ledger. Append-only record of deleted object ids.",
	"# Ids listed here are never reissued and never resurrected.",
}

// TombstoneFile implements ports.TombstoneLog over one CSV file
type TombstoneFile struct {
	path string
}

// NewTombstoneFile returns a log backed by the given file path
func NewTombstoneFile(path string) *TombstoneFile {
	return &TombstoneFile{path: path}
}

// Load reads all tombstone rows, skipping the comment preamble
func (f *TombstoneFile) Load() ([]domain.TombstoneRecord, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tombstones: %w", err)
	}

	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}

	records, err := csv.NewReader(strings.NewReader(strings.Join(kept, "\n"))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tombstones: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0], tombstoneHeader); err != nil {
		return nil, fmt.Errorf("tombstones: %w", err)
	}

	out := make([]domain.TombstoneRecord, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != len(tombstoneHeader) {
			return nil, fmt.Errorf("tombstone row %d: want %d columns, got %d", i+2, len(tombstoneHeader), len(row))
		}
		id := strings.TrimSpace(row[0])
		if err := domain.ValidateID(id); err != nil {
			return nil, fmt.Errorf("tombstone row %d: %w", i+2, err)
		}
		deletedAt, err := parseTime(row[2])
		if err != nil {
			return nil, fmt.Errorf("tombstone row %d: %w", i+2, err)
		}
		out = append(out, domain.TombstoneRecord{
			ID:            id,
			CanonicalName: strings.TrimSpace(row[1]),
			DeletedAt:     deletedAt,
			OriginFile:    strings.TrimSpace(row[3]),
			Reason:        row[4],
			Notes:         row[5],
		})
	}
	return out, nil
}

// Save writes the full record set atomically, preamble included
func (f *TombstoneFile) Save(records []domain.TombstoneRecord) error {
	var buf bytes.Buffer
	for _, line := range tombstonePreamble {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(tombstoneHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.CanonicalName,
			formatTime(r.DeletedAt),
			r.OriginFile,
			r.Reason,
			r.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeAtomic(f.path, buf.Bytes())
}
