package ledgercsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"kinetic/internal/domain"
)

var bucketHeader = []string{
	"Canonical ID",
	"Display Name",
	"Notes",
}

// BucketFile implements ports.BucketCatalog over one CSV file
type BucketFile struct {
	path string
}

// NewBucketFile returns a catalog backed by the given file path
func NewBucketFile(path string) *BucketFile {
	return &BucketFile{path: path}
}

// Load reads the bucket definitions. A missing catalog is empty; callers
// append the synthetic catch-all themselves.
func (f *BucketFile) Load() ([]domain.Bucket, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bucket catalog: %w", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse bucket catalog: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if err := checkHeader(records[0], bucketHeader); err != nil {
		return nil, fmt.Errorf("bucket catalog: %w", err)
	}

	out := make([]domain.Bucket, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != len(bucketHeader) {
			return nil, fmt.Errorf("bucket row %d: want %d columns, got %d", i+2, len(bucketHeader), len(row))
		}
		id := strings.TrimSpace(row[0])
		if !domain.IsBucketTag(id) {
			return nil, fmt.Errorf("bucket row %d: invalid bucket id %q", i+2, id)
		}
		out = append(out, domain.Bucket{
			ID:          id,
			DisplayName: strings.TrimSpace(row[1]),
			Description: strings.TrimSpace(row[2]),
		})
	}
	return out, nil
}

// Save writes the catalog atomically
func (f *BucketFile) Save(buckets []domain.Bucket) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(bucketHeader); err != nil {
		return err
	}
	for _, b := range buckets {
		if err := w.Write([]string{b.ID, b.DisplayName, b.Description}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeAtomic(f.path, buf.Bytes())
}
