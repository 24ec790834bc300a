package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kinetic/internal/adapters/filesystem"
	"kinetic/internal/adapters/ledgercsv"
	"kinetic/internal/domain"
	"kinetic/internal/outline"
)

func cardFixture(t *testing.T, objects []*domain.LedgerObject) *CardCommand {
	t.Helper()
	root := t.TempDir()
	repo := ledgercsv.NewLedgerFile(filepath.Join(root, "Ledger.csv"))
	if err := repo.Save(objects); err != nil {
		t.Fatal(err)
	}
	return &CardCommand{
		Ledger:   repo,
		Docs:     filesystem.NewStore(root, "Projects", "Cards"),
		CardsDir: "Cards",
		Date:     time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	}
}

func TestCardRanksByBucketThenID(t *testing.T) {
	later := &domain.LedgerObject{ID: "T2", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md", Tags: []string{"S3-3"}}
	later.Rename("Clean the gutters")
	first := &domain.LedgerObject{ID: "T5", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md", Tags: []string{"S3-1"}}
	first.Rename("Draft quarterly plan")
	unscheduled := &domain.LedgerObject{ID: "T1", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md"}
	unscheduled.Rename("Someday idea")
	done := &domain.LedgerObject{ID: "T3", Type: domain.TypeTask, State: domain.StateComplete, SourceLocation: "S3.md", Tags: []string{"S3-1"}}
	done.Rename("Already finished")

	cmd := cardFixture(t, []*domain.LedgerObject{later, first, unscheduled, done})
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Path != "Cards/2026-08-23-TodayCard.md" || result.Tasks != 2 {
		t.Errorf("result = %+v", result)
	}

	lines, err := cmd.Docs.Read(result.Path)
	if err != nil {
		t.Fatal(err)
	}
	rows := outline.ParseCardTable(lines)
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].IDs[0] != "T5" || rows[1].IDs[0] != "T2" {
		t.Errorf("rank order = %+v", rows)
	}
	if rows[0].Rank != 1 || rows[0].Checked {
		t.Errorf("first row = %+v", rows[0])
	}
	if !strings.Contains(strings.Join(lines, "\n"), "# Today Card 2026-08-23") {
		t.Errorf("missing title:\n%s", strings.Join(lines, "\n"))
	}
}

func TestCardRefusesOverwriteWithoutForce(t *testing.T) {
	task := &domain.LedgerObject{ID: "T1", Type: domain.TypeTask, State: domain.StateActive, SourceLocation: "S3.md", Tags: []string{"S3-1"}}
	task.Rename("Draft quarterly plan")

	cmd := cardFixture(t, []*domain.LedgerObject{task})
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("second Execute should refuse to overwrite")
	}
	cmd.Force = true
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("forced Execute: %v", err)
	}
}

func TestCardHonorsLimit(t *testing.T) {
	var objects []*domain.LedgerObject
	for i := 1; i <= 4; i++ {
		obj := &domain.LedgerObject{
			ID: "T" + string(rune('0'+i)), Type: domain.TypeTask,
			State: domain.StateActive, SourceLocation: "S3.md", Tags: []string{"S3-1"},
		}
		obj.Rename("Task number " + string(rune('0'+i)))
		objects = append(objects, obj)
	}

	cmd := cardFixture(t, objects)
	cmd.Limit = 2
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Tasks != 2 {
		t.Errorf("tasks = %d, want 2", result.Tasks)
	}
}
