package ledgercsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kinetic/internal/domain"
)

func sample(id, name string) *domain.LedgerObject {
	obj := &domain.LedgerObject{
		ID:             id,
		Type:           domain.TypeTask,
		State:          domain.StateActive,
		SourceLocation: "S3.md",
		Tags:           []string{"urgent", "S3-2"},
		People:         []string{"@alex"},
		CreatedAt:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		ModifiedAt:     time.Date(2026, 8, 2, 11, 30, 0, 0, time.UTC),
	}
	obj.Rename(name)
	return obj
}

func TestLedgerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Ledger.csv")
	repo := NewLedgerFile(path)

	parent := sample("T1", "Draft quarterly plan")
	parent.ChildIDs = []string{"T1.1"}
	parent.Notes = "Needs review first.\nCheck with finance."
	child := sample("T1.1", "Collect numbers")
	child.ParentID = "T1"

	if err := repo.Save([]*domain.LedgerObject{parent, child}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load returned %d rows", len(got))
	}
	p := got[0]
	if p.ID != "T1" || p.DisplayName != "Draft quarterly plan" || p.Type != domain.TypeTask {
		t.Errorf("row = %+v", p)
	}
	if len(p.Tags) != 2 || p.Tags[1] != "S3-2" {
		t.Errorf("tags = %v", p.Tags)
	}
	if len(p.ChildIDs) != 1 || p.ChildIDs[0] != "T1.1" {
		t.Errorf("children = %v", p.ChildIDs)
	}
	if p.Notes != "Needs review first.\nCheck with finance." {
		t.Errorf("notes = %q", p.Notes)
	}
	if !p.CreatedAt.Equal(parent.CreatedAt) || !p.ModifiedAt.Equal(parent.ModifiedAt) {
		t.Errorf("timestamps = %v %v", p.CreatedAt, p.ModifiedAt)
	}
	if got[1].ParentID != "T1" {
		t.Errorf("child parent = %q", got[1].ParentID)
	}
}

func TestLedgerMissingFileIsEmpty(t *testing.T) {
	repo := NewLedgerFile(filepath.Join(t.TempDir(), "nope.csv"))
	got, err := repo.Load()
	if err != nil || got != nil {
		t.Errorf("Load = %v, %v", got, err)
	}
}

func TestLedgerRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		body string
	}{
		{"wrong header", "Object ID,Kind\nT1,Task\n"},
		{"bad id", header() + "\nX1,Task,,,Name,Active,S3.md,,,,,,,\n"},
		{"bad type", header() + "\nT1,Widget,,,Name,Active,S3.md,,,,,,,\n"},
		{"checksum mismatch", header() + "\nT1,Task,deadbeef,name,Name,Active,S3.md,,,,,,,\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".csv")
			if err := os.WriteFile(path, []byte(tc.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewLedgerFile(path).Load(); err == nil {
				t.Error("Load accepted malformed table")
			}
		})
	}
}

func header() string {
	return strings.Join(ledgerHeader, ",")
}

func TestTombstoneRoundTripSkipsPreamble(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tombstone_Ledger.csv")
	log := NewTombstoneFile(path)

	records := []domain.TombstoneRecord{
		{
			ID:            "T4",
			CanonicalName: "fixtheroof",
			DeletedAt:     time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC),
			OriginFile:    "S3.md",
			Reason:        "no longer present in S3.md",
		},
	}
	if err := log.Save(records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "#") {
		t.Error("preamble missing")
	}

	got, err := log.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "T4" || got[0].Reason != "no longer present in S3.md" {
		t.Errorf("Load = %+v", got)
	}
	if !got[0].DeletedAt.Equal(records[0].DeletedAt) {
		t.Errorf("deleted at = %v", got[0].DeletedAt)
	}
}

func TestBucketCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "S3_Buckets.csv")
	catalog := NewBucketFile(path)

	in := []domain.Bucket{
		{ID: "S3-1", DisplayName: "This Week", Description: "Due within the week."},
		{ID: "S3-2", DisplayName: "Deep Work"},
	}
	if err := catalog.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "S3-1" || got[1].DisplayName != "Deep Work" {
		t.Errorf("Load = %+v", got)
	}

	bad := "Canonical ID,Display Name,Notes\nWEEK,This Week,\n"
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.Load(); err == nil {
		t.Error("invalid bucket id accepted")
	}
}
